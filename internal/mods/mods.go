// Package mods holds the gameplay modifiers that change how a play is scored.
package mods

import (
	"strings"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
	"github.com/pkg/errors"
)

var (
	ErrUnknownMod   = errors.New("unknown mod")
	ErrIncompatible = errors.New("incompatible mods")
)

// FailOverride is implemented by mods that decide whether a play may fail.
type FailOverride interface {
	AllowFail() bool
}

// FailCondition is implemented by mods that fail a play on their own terms.
type FailCondition interface {
	FailCondition(s score.Scorer) bool
}

type NoFail struct{}

func (NoFail) Acronym() string                                { return "NF" }
func (NoFail) ScoreMultiplier() float64                       { return 0.5 }
func (NoFail) AdjustRank(rank game.Rank, _ float64) game.Rank { return rank }
func (NoFail) AllowFail() bool                                { return false }

type Easy struct{}

func (Easy) Acronym() string                                { return "EZ" }
func (Easy) ScoreMultiplier() float64                       { return 0.5 }
func (Easy) AdjustRank(rank game.Rank, _ float64) game.Rank { return rank }

type HardRock struct{}

func (HardRock) Acronym() string                                { return "HR" }
func (HardRock) ScoreMultiplier() float64                       { return 1.06 }
func (HardRock) AdjustRank(rank game.Rank, _ float64) game.Rank { return rank }

type Hidden struct{}

func (Hidden) Acronym() string          { return "HD" }
func (Hidden) ScoreMultiplier() float64 { return 1.06 }
func (Hidden) AdjustRank(rank game.Rank, _ float64) game.Rank {
	return silver(rank)
}

type Flashlight struct{}

func (Flashlight) Acronym() string          { return "FL" }
func (Flashlight) ScoreMultiplier() float64 { return 1.12 }
func (Flashlight) AdjustRank(rank game.Rank, _ float64) game.Rank {
	return silver(rank)
}

func silver(rank game.Rank) game.Rank {
	switch rank {
	case game.RankX:
		return game.RankXH
	case game.RankS:
		return game.RankSH
	}
	return rank
}

// SuddenDeath fails the play on the first combo break.
type SuddenDeath struct{}

func (SuddenDeath) Acronym() string                                { return "SD" }
func (SuddenDeath) ScoreMultiplier() float64                       { return 1 }
func (SuddenDeath) AdjustRank(rank game.Rank, _ float64) game.Rank { return rank }

func (SuddenDeath) FailCondition(s score.Scorer) bool {
	return s.Combo() == 0 && s.Statistic(game.Miss) > 0
}

// Perfect fails the play as soon as accuracy drops.
type Perfect struct{}

func (Perfect) Acronym() string                                { return "PF" }
func (Perfect) ScoreMultiplier() float64                       { return 1 }
func (Perfect) AdjustRank(rank game.Rank, _ float64) game.Rank { return rank }

func (Perfect) FailCondition(s score.Scorer) bool {
	return s.Accuracy() < 1
}

var known = []score.Mod{
	NoFail{},
	Easy{},
	HardRock{},
	Hidden{},
	Flashlight{},
	SuddenDeath{},
	Perfect{},
}

var incompatible = [][2]string{
	{"NF", "SD"},
	{"NF", "PF"},
	{"SD", "PF"},
	{"EZ", "HR"},
}

// Parse resolves mod acronyms, keeping their order.
func Parse(acronyms []string) ([]score.Mod, error) {
	list := []score.Mod{}
	seen := map[string]bool{}
	for _, a := range acronyms {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		m := lookup(a)
		if nil == m {
			return nil, errors.Wrapf(ErrUnknownMod, "%q", a)
		}
		for _, pair := range incompatible {
			if (pair[0] == a && seen[pair[1]]) || (pair[1] == a && seen[pair[0]]) {
				return nil, errors.Wrapf(ErrIncompatible, "%v and %v", pair[0], pair[1])
			}
		}
		seen[a] = true
		list = append(list, m)
	}
	return list, nil
}

func lookup(acronym string) score.Mod {
	for _, m := range known {
		if m.Acronym() == acronym {
			return m
		}
	}
	return nil
}

// Multiplier is the product of the score multipliers of list.
func Multiplier(list []score.Mod) float64 {
	multiplier := 1.0
	for _, m := range list {
		multiplier *= m.ScoreMultiplier()
	}
	return multiplier
}

// Binder is the part of a scorer mods attach to.
type Binder interface {
	SetMods(list []score.Mod)
	OnFailed(h func() bool)
	AddFailCondition(cond func(s score.Scorer) bool)
}

// Bind makes s score with list, and registers the fail conditions and fail
// overrides of its mods.
func Bind(s Binder, list []score.Mod) {
	s.SetMods(list)
	for _, m := range list {
		if c, ok := m.(FailCondition); ok {
			s.AddFailCondition(c.FailCondition)
		}
		if o, ok := m.(FailOverride); ok {
			s.OnFailed(o.AllowFail)
		}
	}
}
