package game

import "time"

// HitWindows holds the timing window of each result a chart allows.
type HitWindows map[HitResult]time.Duration

func DefaultHitWindows() HitWindows {
	return HitWindows{
		Perfect: 16 * time.Millisecond,
		Great:   40 * time.Millisecond,
		Good:    73 * time.Millisecond,
		Ok:      103 * time.Millisecond,
		Meh:     127 * time.Millisecond,
		Miss:    164 * time.Millisecond,
	}
}

// IsHitResultAllowed reports whether the result can occur under these windows.
// Misses are always possible.
func (w HitWindows) IsHitResultAllowed(result HitResult) bool {
	if result == Miss {
		return true
	}
	window, ok := w[result]
	return ok && window > 0
}

// Ruleset creates judgement results for a game mode.
type Ruleset interface {
	// CreateResult may return nil when the ruleset cannot score the judgement.
	CreateResult(j Judgement) *JudgementResult
	HitWindows() HitWindows
	HealthAdjustmentFactorFor(result *JudgementResult) float64
}

type DefaultRuleset struct {
	Difficulty Difficulty
	Windows    HitWindows
}

func NewRuleset(d Difficulty) *DefaultRuleset {
	return &DefaultRuleset{Difficulty: d, Windows: DefaultHitWindows()}
}

func (r *DefaultRuleset) CreateResult(j Judgement) *JudgementResult {
	return NewJudgementResult(j)
}

func (r *DefaultRuleset) HitWindows() HitWindows {
	if nil == r.Windows {
		return DefaultHitWindows()
	}
	return r.Windows
}

func (r *DefaultRuleset) HealthAdjustmentFactorFor(result *JudgementResult) float64 {
	if result.Type == Miss && r.Difficulty.DrainRate > 0 {
		return 1 + r.Difficulty.DrainRate/10
	}
	return 1
}
