package game

// Judgement is the static scoring rule of a hit object type.
type Judgement interface {
	// Bonus judgements score outside of accuracy and combo.
	IsBonus() bool
	AffectsCombo() bool
	// The best result this judgement can be given.
	MaxResult() HitResult
	NumericResultFor(result HitResult) float64
	MaxNumericResult() float64
	HealthIncreaseFor(result HitResult) float64
}

// NoteJudgement judges taps, hold heads and hold tails.
type NoteJudgement struct{}

func (NoteJudgement) IsBonus() bool        { return false }
func (NoteJudgement) AffectsCombo() bool   { return true }
func (NoteJudgement) MaxResult() HitResult { return Perfect }

func (NoteJudgement) NumericResultFor(result HitResult) float64 {
	switch result {
	case Meh:
		return 50
	case Ok:
		return 100
	case Good:
		return 200
	case Great:
		return 300
	case Perfect:
		return 320
	}
	return 0
}

func (j NoteJudgement) MaxNumericResult() float64 {
	return j.NumericResultFor(j.MaxResult())
}

func (NoteJudgement) HealthIncreaseFor(result HitResult) float64 {
	switch result {
	case Miss:
		return -0.05
	case Ok:
		return 0.002
	case Good:
		return 0.005
	case Great:
		return 0.008
	case Perfect:
		return 0.01
	}
	return 0
}

// TickJudgement judges the body ticks of a hold. A tick is either held or missed.
type TickJudgement struct{}

func (TickJudgement) IsBonus() bool        { return false }
func (TickJudgement) AffectsCombo() bool   { return true }
func (TickJudgement) MaxResult() HitResult { return Great }

func (TickJudgement) NumericResultFor(result HitResult) float64 {
	if result > Miss {
		return 30
	}
	return 0
}

func (j TickJudgement) MaxNumericResult() float64 {
	return j.NumericResultFor(j.MaxResult())
}

func (TickJudgement) HealthIncreaseFor(result HitResult) float64 {
	switch result {
	case None:
		return 0
	case Miss:
		return -0.01
	}
	return 0.001
}

// BonusJudgement judges roll ticks, which only ever add score.
type BonusJudgement struct{}

func (BonusJudgement) IsBonus() bool        { return true }
func (BonusJudgement) AffectsCombo() bool   { return false }
func (BonusJudgement) MaxResult() HitResult { return LargeBonus }

func (BonusJudgement) NumericResultFor(result HitResult) float64 {
	switch result {
	case SmallBonus:
		return 10
	case LargeBonus:
		return 50
	}
	return 0
}

func (j BonusJudgement) MaxNumericResult() float64 {
	return j.NumericResultFor(j.MaxResult())
}

func (BonusJudgement) HealthIncreaseFor(result HitResult) float64 {
	if result > Miss {
		return 0.002
	}
	return 0
}

// JudgementResult is the outcome of a Judgement for one hit object.
// The *AtJudgement fields are written by the scorer when the result is applied
// and are used to revert it.
type JudgementResult struct {
	Judgement Judgement
	Type      HitResult

	ComboAtJudgement        int
	HighestComboAtJudgement int
	HealthAtJudgement       float64
	FailedAtJudgement       bool
}

func NewJudgementResult(j Judgement) *JudgementResult {
	return &JudgementResult{Judgement: j}
}

// HasResult reports whether the result has been judged.
func (r *JudgementResult) HasResult() bool {
	return r.Type > None
}

// IsHit reports whether the result is a hit of any kind.
func (r *JudgementResult) IsHit() bool {
	return r.Type > Miss
}
