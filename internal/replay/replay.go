// Package replay drives a scorer from a recorded list of judgements, and
// keeps the results it applied so that the play can be rewound.
package replay

import (
	"encoding/json"
	"io"
	"os"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
	"github.com/pkg/errors"
)

var (
	ErrFrameOutOfRange = errors.New("frame out of range")
	ErrDuplicateFrame  = errors.New("object judged twice")
	ErrInvalidResult   = errors.New("result not possible for judgement")
)

// Frame is the result given to one scored object. Objects are numbered in
// the order a perfect play is simulated: depth-first, nested objects first.
type Frame struct {
	Object int            `json:"object"`
	Result game.HitResult `json:"result"`
}

type Replay struct {
	Chart  string   `json:"chart,omitempty"`
	Mods   []string `json:"mods,omitempty"`
	Frames []Frame  `json:"frames"`
}

func Decode(r io.Reader) (*Replay, error) {
	var replay Replay
	if err := json.NewDecoder(r).Decode(&replay); nil != err {
		return nil, errors.Wrap(err, "unable to decode replay")
	}
	return &replay, nil
}

func Load(file string) (*Replay, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func (r *Replay) Save(file string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if nil != err {
		return errors.Wrap(err, "unable to marshal replay")
	}
	return os.WriteFile(file, data, 0644)
}

// Judgements lists the judgement of every scored object, in frame order.
func Judgements(objects []game.HitObject) []game.Judgement {
	judgements := []game.Judgement{}
	_ = game.Walk(objects, func(obj game.HitObject, _ []int) error {
		if j := obj.CreateJudgement(); nil != j {
			judgements = append(judgements, j)
		}
		return nil
	})
	return judgements
}

// Allowed reports whether result can be given to j under windows.
func Allowed(j game.Judgement, windows game.HitWindows, result game.HitResult) bool {
	if result == game.None || result > j.MaxResult() {
		return false
	}
	if j.IsBonus() {
		return result == game.Miss || result >= game.SmallBonus
	}
	if result >= game.SmallBonus {
		return false
	}
	return result == j.MaxResult() || windows.IsHitResultAllowed(result)
}

// Fit returns the closest result to result that j allows.
func Fit(j game.Judgement, windows game.HitWindows, result game.HitResult) game.HitResult {
	if j.IsBonus() {
		if result <= game.Miss {
			return game.Miss
		}
		return j.MaxResult()
	}
	if result > j.MaxResult() {
		result = j.MaxResult()
	}
	for r := result; r > game.Miss; r-- {
		if Allowed(j, windows, r) {
			return r
		}
	}
	return game.Miss
}

// Applier is the part of a scorer a Player drives.
type Applier interface {
	Apply(result *game.JudgementResult)
	Revert(result *game.JudgementResult)
}

// Player applies frames to a scorer and reverts them in reverse order.
type Player struct {
	scorer     Applier
	ruleset    game.Ruleset
	judgements []game.Judgement
	frames     []Frame
	judged     map[int]bool
	applied    []*game.JudgementResult
}

func NewPlayer(s Applier, objects []game.HitObject, ruleset game.Ruleset, replay *Replay) (*Player, error) {
	p := &Player{
		scorer:     s,
		ruleset:    ruleset,
		judgements: Judgements(objects),
		judged:     map[int]bool{},
	}
	if nil == replay {
		return p, nil
	}
	for i, frame := range replay.Frames {
		if err := p.validate(frame); nil != err {
			return nil, errors.Wrapf(err, "frame %v", i)
		}
		p.judged[frame.Object] = true
	}
	p.frames = append(p.frames, replay.Frames...)
	p.judged = map[int]bool{}
	return p, nil
}

func (p *Player) validate(frame Frame) error {
	if frame.Object < 0 || frame.Object >= len(p.judgements) {
		return errors.Wrapf(ErrFrameOutOfRange, "object %v of %v", frame.Object, len(p.judgements))
	}
	if p.judged[frame.Object] {
		return errors.Wrapf(ErrDuplicateFrame, "object %v", frame.Object)
	}
	if !Allowed(p.judgements[frame.Object], p.ruleset.HitWindows(), frame.Result) {
		return errors.Wrapf(ErrInvalidResult, "%v for object %v", frame.Result, frame.Object)
	}
	return nil
}

// Step applies the next frame. It returns false at the end of the replay.
func (p *Player) Step() (bool, error) {
	if len(p.applied) >= len(p.frames) {
		return false, nil
	}
	frame := p.frames[len(p.applied)]
	result := p.ruleset.CreateResult(p.judgements[frame.Object])
	if nil == result {
		return false, errors.Wrapf(score.ErrMissingResult, "object %v", frame.Object)
	}
	result.Type = frame.Result
	p.scorer.Apply(result)
	p.applied = append(p.applied, result)
	p.judged[frame.Object] = true
	return true, nil
}

// Rewind reverts the last applied frame. It returns false when nothing has
// been applied.
func (p *Player) Rewind() bool {
	if len(p.applied) == 0 {
		return false
	}
	last := len(p.applied) - 1
	p.scorer.Revert(p.applied[last])
	p.applied = p.applied[:last]
	delete(p.judged, p.frames[last].Object)
	return true
}

// Seek applies or reverts frames until exactly n frames are applied.
func (p *Player) Seek(n int) error {
	if n < 0 || n > len(p.frames) {
		return errors.Wrapf(ErrFrameOutOfRange, "seek to %v of %v", n, len(p.frames))
	}
	for len(p.applied) > n {
		p.Rewind()
	}
	for len(p.applied) < n {
		if _, err := p.Step(); nil != err {
			return err
		}
	}
	return nil
}

// Push records a new frame after the applied ones, dropping any frames that
// were rewound past, and applies it.
func (p *Player) Push(frame Frame) error {
	if err := p.validate(frame); nil != err {
		return err
	}
	p.frames = append(p.frames[:len(p.applied)], frame)
	_, err := p.Step()
	return err
}

// Next returns the index and judgement of the first object not judged by the
// applied frames, or -1 when every object is judged.
func (p *Player) Next() (int, game.Judgement) {
	for i, j := range p.judgements {
		if !p.judged[i] {
			return i, j
		}
	}
	return -1, nil
}

func (p *Player) Applied() int {
	return len(p.applied)
}

func (p *Player) Len() int {
	return len(p.frames)
}

// Objects is the number of scored objects frames can address.
func (p *Player) Objects() int {
	return len(p.judgements)
}

// Replay returns the frames up to the applied position.
func (p *Player) Replay() *Replay {
	return &Replay{Frames: append([]Frame(nil), p.frames[:len(p.applied)]...)}
}
