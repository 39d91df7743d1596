package game

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// HitObject is anything in a chart that may be scored.
type HitObject interface {
	// CreateJudgement returns nil for objects that are not scored.
	CreateJudgement() Judgement
	NestedHitObjects() []HitObject
}

type NoteKind uint8

const (
	Tap NoteKind = iota
	Hold
	Roll
	Mine
	HoldTick
	HoldTail
	RollTick
)

var noteKindNames = [...]string{
	Tap:      "tap",
	Hold:     "hold",
	Roll:     "roll",
	Mine:     "mine",
	HoldTick: "hold-tick",
	HoldTail: "hold-tail",
	RollTick: "roll-tick",
}

func (k NoteKind) String() string {
	if int(k) < len(noteKindNames) {
		return noteKindNames[k]
	}
	return "unknown"
}

func (k NoteKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *NoteKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range noteKindNames {
		if n == name {
			*k = NoteKind(i)
			return nil
		}
	}
	return errors.Errorf("unknown note kind %q", text)
}

type Note struct {
	Index   uint8         `json:"index"` // The chart column
	Kind    NoteKind      `json:"kind"`
	Time    time.Duration `json:"time"`              // The time the note should be hit
	TimeEnd time.Duration `json:"timeEnd,omitempty"` // The time a hold or roll should be released
	Nested  []*Note       `json:"nested,omitempty"`
}

func (n *Note) CreateJudgement() Judgement {
	switch n.Kind {
	case Tap, Hold, HoldTail:
		return NoteJudgement{}
	case HoldTick:
		return TickJudgement{}
	case RollTick:
		return BonusJudgement{}
	}
	// Roll heads only carry their ticks; mines are never scored
	return nil
}

func (n *Note) NestedHitObjects() []HitObject {
	objects := make([]HitObject, len(n.Nested))
	for i, nested := range n.Nested {
		objects[i] = nested
	}
	return objects
}

// NewHold creates a hold with ticks evenly spaced between start and end,
// followed by its tail.
func NewHold(index uint8, start, end time.Duration, ticks int) *Note {
	return &Note{
		Index:   index,
		Kind:    Hold,
		Time:    start,
		TimeEnd: end,
		Nested:  append(spread(index, HoldTick, start, end, ticks), &Note{Index: index, Kind: HoldTail, Time: end}),
	}
}

// NewRoll creates a roll with ticks evenly spaced between start and end.
func NewRoll(index uint8, start, end time.Duration, ticks int) *Note {
	return &Note{
		Index:   index,
		Kind:    Roll,
		Time:    start,
		TimeEnd: end,
		Nested:  spread(index, RollTick, start, end, ticks),
	}
}

func spread(index uint8, kind NoteKind, start, end time.Duration, count int) []*Note {
	if count < 0 {
		count = 0
	}
	notes := make([]*Note, 0, count)
	step := (end - start) / time.Duration(count+1)
	for i := 1; i <= count; i++ {
		notes = append(notes, &Note{Index: index, Kind: kind, Time: start + step*time.Duration(i)})
	}
	return notes
}

// Walk visits objects depth-first, nested objects before their parent.
// path holds the index of each object at each depth and is only valid for
// the duration of the call.
func Walk(objects []HitObject, fn func(obj HitObject, path []int) error) error {
	var visit func(obj HitObject, path []int) error
	visit = func(obj HitObject, path []int) error {
		for i, nested := range obj.NestedHitObjects() {
			if err := visit(nested, append(path, i)); nil != err {
				return err
			}
		}
		return fn(obj, path)
	}
	for i, obj := range objects {
		if err := visit(obj, []int{i}); nil != err {
			return err
		}
	}
	return nil
}
