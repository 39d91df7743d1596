package replay

import (
	"reflect"
	"strings"
	"testing"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
	"git.lost.host/meutraa/eotw/internal/testdata"
	"github.com/pkg/errors"
)

// Scored objects of the test chart, in frame order
var chartJudgements = []game.Judgement{
	game.NoteJudgement{},
	game.NoteJudgement{},
	game.TickJudgement{},
	game.TickJudgement{},
	game.NoteJudgement{},
	game.NoteJudgement{},
	game.BonusJudgement{},
	game.BonusJudgement{},
	game.NoteJudgement{},
}

var fullReplay = &Replay{Frames: []Frame{
	{Object: 0, Result: game.Perfect},
	{Object: 1, Result: game.Good},
	{Object: 5, Result: game.Great},
	{Object: 2, Result: game.Great},
	{Object: 3, Result: game.Miss},
	{Object: 4, Result: game.Ok},
	{Object: 6, Result: game.SmallBonus},
	{Object: 7, Result: game.LargeBonus},
	{Object: 8, Result: game.Meh},
}}

type view struct {
	TotalScore, Accuracy, Health float64
	Combo, HighestCombo          int
	JudgedHits                   int
	Rank                         game.Rank
	Statistics                   map[game.HitResult]int
}

func viewOf(s *score.DefaultScorer) view {
	v := view{
		TotalScore:   s.TotalScore(),
		Accuracy:     s.Accuracy(),
		Health:       s.Health(),
		Combo:        s.Combo(),
		HighestCombo: s.HighestCombo(),
		JudgedHits:   s.JudgedHits(),
		Rank:         s.Rank(),
		Statistics:   map[game.HitResult]int{},
	}
	for _, r := range game.AllHitResults() {
		v.Statistics[r] = s.Statistic(r)
	}
	return v
}

func setup(t *testing.T, replay *Replay) (*score.DefaultScorer, *Player) {
	t.Helper()
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal("unable to parse chart", err)
	}
	ruleset := game.NewRuleset(chart.Difficulty)
	s, err := score.NewScorer(chart.HitObjects(), ruleset)
	if nil != err {
		t.Fatal(err)
	}
	p, err := NewPlayer(s, chart.HitObjects(), ruleset, replay)
	if nil != err {
		t.Fatal(err)
	}
	return s, p
}

func TestJudgements(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	judgements := Judgements(chart.HitObjects())
	if !reflect.DeepEqual(judgements, chartJudgements) {
		t.Log("got     ", judgements)
		t.Log("expected", chartJudgements)
		t.Fail()
	}
}

func TestSeek(t *testing.T) {
	s, p := setup(t, fullReplay)
	empty := viewOf(s)

	checkpoints := []view{empty}
	for {
		ok, err := p.Step()
		if nil != err {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		checkpoints = append(checkpoints, viewOf(s))
	}
	if p.Applied() != len(fullReplay.Frames) || s.JudgedHits() != 9 || !s.HasCompleted() {
		t.Fatalf("Got %v frames applied and %v hits judged", p.Applied(), s.JudgedHits())
	}

	for _, n := range []int{4, 9, 0, 7, 2, 2, 9, 0} {
		if err := p.Seek(n); nil != err {
			t.Fatal(err)
		}
		if v := viewOf(s); !reflect.DeepEqual(v, checkpoints[n]) {
			t.Log("seek    ", n)
			t.Log("got     ", v)
			t.Log("expected", checkpoints[n])
			t.Fail()
		}
	}

	if err := p.Seek(10); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("Got Seek(10) = %v, expected %v", err, ErrFrameOutOfRange)
	}
	if p.Rewind() {
		t.Error("rewound past the start")
	}
}

var invalidReplays = []struct {
	frames []Frame
	err    error
}{
	{[]Frame{{Object: 9, Result: game.Great}}, ErrFrameOutOfRange},
	{[]Frame{{Object: -1, Result: game.Great}}, ErrFrameOutOfRange},
	{[]Frame{{Object: 0, Result: game.Great}, {Object: 0, Result: game.Miss}}, ErrDuplicateFrame},
	{[]Frame{{Object: 6, Result: game.Great}}, ErrInvalidResult},
	{[]Frame{{Object: 0, Result: game.None}}, ErrInvalidResult},
	{[]Frame{{Object: 0, Result: game.LargeBonus}}, ErrInvalidResult},
	{[]Frame{{Object: 2, Result: game.Perfect}}, ErrInvalidResult},
}

func TestInvalidReplays(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	ruleset := game.NewRuleset(chart.Difficulty)
	s, err := score.NewScorer(chart.HitObjects(), ruleset)
	if nil != err {
		t.Fatal(err)
	}
	for _, test := range invalidReplays {
		_, err := NewPlayer(s, chart.HitObjects(), ruleset, &Replay{Frames: test.frames})
		if !errors.Is(err, test.err) {
			t.Errorf("Got %v for %v, expected %v", err, test.frames, test.err)
		}
	}
}

func TestPushAfterRewind(t *testing.T) {
	s, p := setup(t, nil)
	for i := 0; i < 3; i++ {
		if err := p.Push(Frame{Object: i, Result: game.Great}); nil != err {
			t.Fatal(err)
		}
	}
	p.Rewind()
	p.Rewind()
	if err := p.Push(Frame{Object: 1, Result: game.Miss}); nil != err {
		t.Fatal(err)
	}
	if p.Len() != 2 || s.Combo() != 0 || s.Statistic(game.Miss) != 1 || s.Statistic(game.Great) != 1 {
		t.Errorf("Got %v frames, combo %v", p.Len(), s.Combo())
	}
	if i, j := p.Next(); i != 2 || j != (game.TickJudgement{}) {
		t.Errorf("Got Next() = %v, %v, expected 2 and a tick", i, j)
	}
	if err := p.Push(Frame{Object: 1, Result: game.Good}); !errors.Is(err, ErrDuplicateFrame) {
		t.Errorf("Got %v, expected %v", err, ErrDuplicateFrame)
	}
	expected := []Frame{{Object: 0, Result: game.Great}, {Object: 1, Result: game.Miss}}
	if !reflect.DeepEqual(p.Replay().Frames, expected) {
		t.Errorf("Got %v, expected %v", p.Replay().Frames, expected)
	}
}

func TestInvalidPushKeepsFrames(t *testing.T) {
	_, p := setup(t, fullReplay)
	if err := p.Seek(2); nil != err {
		t.Fatal(err)
	}
	p.Rewind()
	for _, frame := range []Frame{{Object: 999, Result: game.Great}, {Object: 0, Result: game.Miss}, {Object: 6, Result: game.Good}} {
		if err := p.Push(frame); nil == err {
			t.Errorf("Got no error pushing %v", frame)
		}
	}
	if p.Len() != len(fullReplay.Frames) || p.Applied() != 1 {
		t.Errorf("Got %v frames with %v applied, expected %v with 1", p.Len(), p.Applied(), len(fullReplay.Frames))
	}
	if err := p.Seek(p.Len()); nil != err {
		t.Error(err)
	}
}

var fitTests = []struct {
	j        game.Judgement
	in, out  game.HitResult
	noWindow game.HitResult
}{
	{game.NoteJudgement{}, game.Perfect, game.Perfect, game.None},
	{game.NoteJudgement{}, game.LargeBonus, game.Perfect, game.None},
	{game.NoteJudgement{}, game.Good, game.Ok, game.Good},
	{game.NoteJudgement{}, game.None, game.Miss, game.None},
	{game.TickJudgement{}, game.Perfect, game.Great, game.None},
	{game.BonusJudgement{}, game.Great, game.LargeBonus, game.None},
	{game.BonusJudgement{}, game.Miss, game.Miss, game.None},
}

func TestFit(t *testing.T) {
	for _, test := range fitTests {
		windows := game.DefaultHitWindows()
		delete(windows, test.noWindow)
		if out := Fit(test.j, windows, test.in); out != test.out {
			t.Errorf("Got Fit(%T, %v) = %v, expected %v", test.j, test.in, out, test.out)
		}
	}
}

func TestDecode(t *testing.T) {
	in := `{"mods": ["HD"], "frames": [{"object": 0, "result": "great"}, {"object": 1, "result": "miss"}]}`
	replay, err := Decode(strings.NewReader(in))
	if nil != err {
		t.Fatal(err)
	}
	expected := &Replay{Mods: []string{"HD"}, Frames: []Frame{{0, game.Great}, {1, game.Miss}}}
	if !reflect.DeepEqual(replay, expected) {
		t.Errorf("Got %+v, expected %+v", replay, expected)
	}
	if _, err := Decode(strings.NewReader(`{"frames": [{"object": 0, "result": "awesome"}]}`)); nil == err {
		t.Error("decoded an unknown result")
	}
}
