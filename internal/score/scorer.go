package score

import (
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/pkg/errors"
)

var (
	// ErrMissingResult is returned when a ruleset cannot create a result
	// for a judgement that has to be scored.
	ErrMissingResult = errors.New("ruleset did not create a judgement result")
	// ErrModeLocked is returned when changing the mode of a scorer whose chart
	// can only be scored with the classic formula.
	ErrModeLocked = errors.New("scoring mode is locked")
)

type Mode uint8

const (
	Standardised Mode = iota
	Classic
)

func (m Mode) String() string {
	if m == Classic {
		return "classic"
	}
	return "standardised"
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "standardised", "standardized", "":
		return Standardised, nil
	case "classic":
		return Classic, nil
	}
	return Standardised, errors.Errorf("unknown scoring mode %q", s)
}

// Mod is the part of a gameplay modifier that affects scoring.
type Mod interface {
	Acronym() string
	ScoreMultiplier() float64
	AdjustRank(rank game.Rank, accuracy float64) game.Rank
}

// Scorer is the read side of a scorer, as seen by fail conditions and
// presentation.
type Scorer interface {
	TotalScore() float64
	Accuracy() float64
	Health() float64
	Combo() int
	HighestCombo() int
	Rank() game.Rank
	Mode() Mode
	HasFailed() bool
	JudgedHits() int
	Statistic(result game.HitResult) int
	StandardisedScore() float64
}

// Maxima are the normalisation constants found by simulating a perfect play.
type Maxima struct {
	Hits         int
	HighestCombo int
	BaseScore    float64
}

// Result is a finished play.
type Result struct {
	TotalScore int64                  `json:"totalScore"`
	Combo      int                    `json:"combo"`
	MaxCombo   int                    `json:"maxCombo"`
	Accuracy   float64                `json:"accuracy"`
	Rank       game.Rank              `json:"rank"`
	Date       time.Time              `json:"date"`
	Mode       string                 `json:"mode"`
	Mods       []string               `json:"mods,omitempty"`
	Statistics map[game.HitResult]int `json:"statistics"`
}
