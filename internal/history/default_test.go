package history

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
	"git.lost.host/meutraa/eotw/internal/testdata"
	"github.com/pkg/errors"
)

var compactTests = map[*map[game.HitResult]int][]StatisticCompact{
	{}: {},
	{game.Great: 3, game.Miss: 1, game.Ok: 0}: {
		{Result: game.Miss, Count: 1},
		{Result: game.Great, Count: 3},
	},
	{game.LargeBonus: 2, game.Perfect: 10, game.Meh: 1}: {
		{Result: game.Meh, Count: 1},
		{Result: game.Perfect, Count: 10},
		{Result: game.LargeBonus, Count: 2},
	},
}

func TestCompactStatistics(t *testing.T) {
	for in, expected := range compactTests {
		out := compactStatistics(*in)
		if !reflect.DeepEqual(out, expected) {
			t.Log("out     ", out)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestUncompactStatistics(t *testing.T) {
	for expected, in := range compactTests {
		out := uncompactStatistics(in)
		for r, c := range *expected {
			if out[r] != c {
				t.Log("in      ", in)
				t.Log("expected", *expected)
				t.Fail()
			}
		}
		if len(out) != len(in) {
			t.Errorf("Got %v statistics, expected %v", len(out), len(in))
		}
	}
}

func open(t *testing.T) *DefaultStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if nil != err {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func play(t *testing.T, chart *game.Chart, date time.Time, results ...game.HitResult) *score.Result {
	t.Helper()
	s, err := score.NewScorer(chart.HitObjects(), game.NewRuleset(chart.Difficulty), score.WithClock(func() time.Time { return date }))
	if nil != err {
		t.Fatal(err)
	}
	for _, r := range results {
		s.Apply(&game.JudgementResult{Judgement: game.NoteJudgement{}, Type: r})
	}
	var result score.Result
	s.PopulateResult(&result)
	return &result
}

func TestSaveLoad(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	s := open(t)
	ctx := context.Background()
	date := time.Date(2021, 5, 2, 20, 4, 0, 0, time.UTC)

	result := play(t, chart, date, game.Perfect, game.Great, game.Miss)
	result.Mods = []string{"HD", "FL"}
	id, err := s.Save(ctx, chart, result)
	if nil != err {
		t.Fatal(err)
	}

	records, err := s.Load(ctx, chart)
	if nil != err {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("Got %v records, expected 1", len(records))
	}
	record := records[0]
	if record.ID != id || record.Chart != chart.Hash() {
		t.Errorf("Got record %v for %v, expected %v for %v", record.ID, record.Chart, id, chart.Hash())
	}
	got := record.Result
	if got.TotalScore != result.TotalScore || got.Accuracy != result.Accuracy || got.Rank != result.Rank {
		t.Errorf("Got %+v, expected %+v", got, *result)
	}
	if got.Combo != 0 || got.MaxCombo != 2 || got.Mode != "standardised" {
		t.Errorf("Got combo %v/%v in %v", got.Combo, got.MaxCombo, got.Mode)
	}
	if !got.Date.Equal(date) {
		t.Errorf("Got date %v, expected %v", got.Date, date)
	}
	if !reflect.DeepEqual(got.Mods, result.Mods) {
		t.Errorf("Got mods %v, expected %v", got.Mods, result.Mods)
	}
	for r, c := range result.Statistics {
		if got.Statistics[r] != c {
			t.Errorf("Got %v %v, expected %v", got.Statistics[r], r, c)
		}
	}
}

func TestBest(t *testing.T) {
	chart, _ := testdata.GetChart()
	s := open(t)
	ctx := context.Background()

	if _, err := s.Best(ctx, chart); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got %v, expected %v", err, ErrNotFound)
	}

	date := time.Date(2021, 5, 2, 20, 4, 0, 0, time.UTC)
	results := []*score.Result{
		play(t, chart, date, game.Miss, game.Great),
		play(t, chart, date.Add(time.Minute), game.Perfect, game.Perfect, game.Perfect),
		play(t, chart, date.Add(2*time.Minute), game.Good),
	}
	ids := make([]string, len(results))
	for i, r := range results {
		id, err := s.Save(ctx, chart, r)
		if nil != err {
			t.Fatal(err)
		}
		ids[i] = id
	}

	best, err := s.Best(ctx, chart)
	if nil != err {
		t.Fatal(err)
	}
	if best.ID != ids[1] {
		t.Errorf("Got best %v with %v, expected %v", best.ID, best.Result.TotalScore, ids[1])
	}

	records, _ := s.Load(ctx, chart)
	if len(records) != 3 || records[0].ID != ids[2] || records[2].ID != ids[0] {
		t.Error("records are not newest first")
	}

	other := &game.Chart{Difficulty: game.Difficulty{Name: "Other", Type: "dance-single"}}
	if records, _ := s.Load(ctx, other); len(records) != 0 {
		t.Errorf("Got %v records for another chart, expected 0", len(records))
	}
}
