package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/pkg/errors"
)

const (
	basePortion  = 0.3
	comboPortion = 0.7
	maxScore     = 1000000

	minHealth = 0.0
	maxHealth = 1.0
	// Health this close to the floor counts as having reached it
	healthTolerance = 1e-7
)

var _ Scorer = (*DefaultScorer)(nil)

type Option func(*DefaultScorer)

// WithClock sets the clock used to date finished results.
func WithClock(now func() time.Time) Option {
	return func(s *DefaultScorer) {
		s.now = now
	}
}

// DefaultScorer turns judgement results into score, combo, accuracy, health
// and rank.
//
// A DefaultScorer is not safe for concurrent use. Results must be applied in
// gameplay order and reverted in the exact reverse order they were applied;
// the scorer does not track which results it has seen, so reverting a result
// twice, or one that was never applied, corrupts its state.
type DefaultScorer struct {
	ruleset game.Ruleset
	now     func() time.Time

	totalScore   value[float64]
	accuracy     value[float64]
	health       value[float64]
	combo        value[int]
	highestCombo value[int]
	rank         value[game.Rank]
	mode         value[Mode]
	modeLocked   bool

	mods            []Mod
	modsHandlers    []func(mods []Mod)
	scoreMultiplier float64

	maxima              Maxima
	judgedHits          int
	baseScore           float64
	rollingMaxBaseScore float64
	bonusScore          float64
	hasFailed           bool
	counts              map[game.HitResult]int

	judgementHandlers []func(result *game.JudgementResult)
	allJudgedHandlers []func()
	failedHandlers    []func() bool
	failConditions    []func(s Scorer) bool
}

// NewScorer simulates a perfect play of objects to find the maxima used by
// the standardised formula, then resets to an empty play.
//
// When the objects give no base score or no combo, the scorer is locked to
// the classic formula.
func NewScorer(objects []game.HitObject, ruleset game.Ruleset, opts ...Option) (*DefaultScorer, error) {
	s := &DefaultScorer{
		ruleset:         ruleset,
		now:             time.Now,
		scoreMultiplier: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.combo.OnChange(func(_, combo int) {
		if combo > s.highestCombo.Get() {
			s.highestCombo.Set(combo)
		}
	})

	s.Reset(false)
	if err := s.simulate(objects); nil != err {
		return nil, err
	}
	s.Reset(true)

	if s.maxima.BaseScore == 0 || s.maxima.HighestCombo == 0 {
		s.mode.Set(Classic)
		s.modeLocked = true
		s.updateScore()
	}
	return s, nil
}

func (s *DefaultScorer) simulate(objects []game.HitObject) error {
	return game.Walk(objects, func(obj game.HitObject, path []int) error {
		judgement := obj.CreateJudgement()
		if nil == judgement {
			return nil
		}
		result := s.ruleset.CreateResult(judgement)
		if nil == result {
			return errors.Wrapf(ErrMissingResult, "hit object %v (%T)", path, obj)
		}
		result.Type = judgement.MaxResult()
		s.Apply(result)
		return nil
	})
}

// Apply scores a judgement result. Once the play has failed, results are
// still stamped so they can be reverted, but no longer change the score.
func (s *DefaultScorer) Apply(result *game.JudgementResult) {
	s.applyResult(result)
	s.updateScore()
	s.updateFailed()
	s.notifyNewJudgement(result)
}

func (s *DefaultScorer) applyResult(result *game.JudgementResult) {
	result.ComboAtJudgement = s.combo.Get()
	result.HighestComboAtJudgement = s.highestCombo.Get()
	result.HealthAtJudgement = s.health.Get()
	result.FailedAtJudgement = s.hasFailed

	if s.hasFailed {
		return
	}

	s.judgedHits++

	judgement := result.Judgement
	if judgement.AffectsCombo() && !judgement.IsBonus() {
		switch result.Type {
		case game.None:
		case game.Miss:
			s.combo.Set(0)
		default:
			s.combo.Set(s.combo.Get() + 1)
		}
	}

	if judgement.IsBonus() {
		if result.IsHit() {
			s.bonusScore += judgement.NumericResultFor(result.Type)
		}
	} else {
		if result.HasResult() {
			s.counts[result.Type]++
		}
		s.baseScore += judgement.NumericResultFor(result.Type)
		s.rollingMaxBaseScore += judgement.MaxNumericResult()
	}

	increase := s.ruleset.HealthAdjustmentFactorFor(result) * judgement.HealthIncreaseFor(result.Type)
	s.health.Set(clamp(s.health.Get()+increase, minHealth, maxHealth))
}

// Revert undoes the most recently applied result that has not been reverted.
// A failed play stays failed.
func (s *DefaultScorer) Revert(result *game.JudgementResult) {
	s.combo.Set(result.ComboAtJudgement)
	s.highestCombo.Set(result.HighestComboAtJudgement)
	s.health.Set(result.HealthAtJudgement)

	if !result.FailedAtJudgement {
		s.judgedHits--

		judgement := result.Judgement
		if judgement.IsBonus() {
			if result.IsHit() {
				s.bonusScore -= judgement.NumericResultFor(result.Type)
			}
		} else {
			if result.HasResult() {
				s.counts[result.Type]--
				if s.counts[result.Type] == 0 {
					delete(s.counts, result.Type)
				}
			}
			s.baseScore -= judgement.NumericResultFor(result.Type)
			s.rollingMaxBaseScore -= judgement.MaxNumericResult()
		}
	}

	s.updateScore()
}

// Reset clears the play. With storeAsMaxima, the play reached so far becomes
// the normalisation baseline first.
func (s *DefaultScorer) Reset(storeAsMaxima bool) {
	s.counts = map[game.HitResult]int{}

	if storeAsMaxima {
		s.maxima = Maxima{
			Hits:         s.judgedHits,
			HighestCombo: s.highestCombo.Get(),
			BaseScore:    s.baseScore,
		}
	}

	s.health.Set(maxHealth)
	s.combo.Set(0)
	s.highestCombo.Set(0)
	s.hasFailed = false

	s.judgedHits = 0
	s.baseScore = 0
	s.rollingMaxBaseScore = 0
	s.bonusScore = 0

	s.updateScore()
}

func (s *DefaultScorer) updateScore() {
	accuracy := 1.0
	if s.rollingMaxBaseScore != 0 {
		accuracy = clamp(s.baseScore/s.rollingMaxBaseScore, 0, 1)
	}
	s.accuracy.Set(accuracy)
	s.totalScore.Set(math.Max(0, s.score(s.mode.Get())))

	rank := rankFrom(accuracy)
	for _, m := range s.mods {
		rank = m.AdjustRank(rank, accuracy)
	}
	s.rank.Set(rank)
}

func (s *DefaultScorer) score(mode Mode) float64 {
	highestCombo := float64(s.highestCombo.Get())
	switch mode {
	case Classic:
		return s.bonusScore + s.baseScore*(1+math.Max(0, highestCombo-1)*s.scoreMultiplier/25)
	default:
		portion := 0.0
		if s.maxima.BaseScore != 0 {
			portion += basePortion * s.baseScore / s.maxima.BaseScore
		}
		if s.maxima.HighestCombo != 0 {
			portion += comboPortion * highestCombo / float64(s.maxima.HighestCombo)
		}
		return (maxScore*portion + s.bonusScore) * s.scoreMultiplier
	}
}

func rankFrom(accuracy float64) game.Rank {
	switch {
	case accuracy == 1:
		return game.RankX
	case accuracy > 0.95:
		return game.RankS
	case accuracy > 0.9:
		return game.RankA
	case accuracy > 0.8:
		return game.RankB
	case accuracy > 0.7:
		return game.RankC
	}
	return game.RankD
}

func (s *DefaultScorer) updateFailed() {
	if s.hasFailed {
		return
	}
	if !s.defaultFailCondition() && !s.anyFailCondition() {
		return
	}

	accepted := true
	for _, h := range s.failedHandlers {
		if !h() {
			accepted = false
		}
	}
	if accepted {
		s.hasFailed = true
	}
}

func (s *DefaultScorer) defaultFailCondition() bool {
	return s.health.Get()-healthTolerance < minHealth
}

func (s *DefaultScorer) anyFailCondition() bool {
	for _, cond := range s.failConditions {
		if cond(s) {
			return true
		}
	}
	return false
}

func (s *DefaultScorer) notifyNewJudgement(result *game.JudgementResult) {
	for _, h := range s.judgementHandlers {
		h(result)
	}
	if s.judgedHits == s.maxima.Hits {
		for _, h := range s.allJudgedHandlers {
			h()
		}
	}
}

// PopulateResult writes the finished play into target. Statistics hold every
// result the ruleset's hit windows allow.
func (s *DefaultScorer) PopulateResult(target *Result) {
	target.TotalScore = int64(math.Round(s.totalScore.Get()))
	target.Combo = s.combo.Get()
	target.MaxCombo = s.highestCombo.Get()
	target.Accuracy = math.Round(s.accuracy.Get()*10000) / 10000
	target.Rank = s.rank.Get()
	target.Date = s.now()
	target.Mode = s.mode.Get().String()

	target.Mods = target.Mods[:0]
	for _, m := range s.mods {
		target.Mods = append(target.Mods, m.Acronym())
	}

	windows := s.ruleset.HitWindows()
	target.Statistics = map[game.HitResult]int{}
	for _, r := range game.AllHitResults() {
		if windows.IsHitResultAllowed(r) {
			target.Statistics[r] = s.Statistic(r)
		}
	}
}

// SetMode selects the formula used for TotalScore.
func (s *DefaultScorer) SetMode(mode Mode) error {
	if s.modeLocked && mode != s.mode.Get() {
		return ErrModeLocked
	}
	s.mode.Set(mode)
	s.updateScore()
	return nil
}

// ModeLocked reports whether the chart can only be scored with the classic
// formula.
func (s *DefaultScorer) ModeLocked() bool {
	return s.modeLocked
}

// SetMods replaces the active mods, in the order their rank adjustments apply.
func (s *DefaultScorer) SetMods(mods []Mod) {
	s.mods = append([]Mod(nil), mods...)
	s.scoreMultiplier = 1
	for _, m := range s.mods {
		s.scoreMultiplier *= m.ScoreMultiplier()
	}
	for _, h := range s.modsHandlers {
		h(s.Mods())
	}
	s.updateScore()
}

func (s *DefaultScorer) Mods() []Mod {
	return append([]Mod(nil), s.mods...)
}

func (s *DefaultScorer) ScoreMultiplier() float64 {
	return s.scoreMultiplier
}

func (s *DefaultScorer) TotalScore() float64 { return s.totalScore.Get() }
func (s *DefaultScorer) Accuracy() float64   { return s.accuracy.Get() }
func (s *DefaultScorer) Health() float64     { return s.health.Get() }
func (s *DefaultScorer) Combo() int          { return s.combo.Get() }
func (s *DefaultScorer) HighestCombo() int   { return s.highestCombo.Get() }
func (s *DefaultScorer) Rank() game.Rank     { return s.rank.Get() }
func (s *DefaultScorer) Mode() Mode          { return s.mode.Get() }
func (s *DefaultScorer) HasFailed() bool     { return s.hasFailed }
func (s *DefaultScorer) JudgedHits() int     { return s.judgedHits }
func (s *DefaultScorer) Maxima() Maxima      { return s.maxima }

// HasCompleted reports whether every scored object has been judged.
func (s *DefaultScorer) HasCompleted() bool {
	return s.judgedHits == s.maxima.Hits
}

func (s *DefaultScorer) Statistic(result game.HitResult) int {
	return s.counts[result]
}

// StandardisedScore is the total score under the standardised formula,
// whatever the selected mode.
func (s *DefaultScorer) StandardisedScore() float64 {
	return math.Max(0, s.score(Standardised))
}

func (s *DefaultScorer) OnNewJudgement(h func(result *game.JudgementResult)) {
	s.judgementHandlers = append(s.judgementHandlers, h)
}

func (s *DefaultScorer) OnAllJudged(h func()) {
	s.allJudgedHandlers = append(s.allJudgedHandlers, h)
}

// OnFailed registers a handler called when the play meets a fail condition.
// The play only fails if every handler returns true.
func (s *DefaultScorer) OnFailed(h func() bool) {
	s.failedHandlers = append(s.failedHandlers, h)
}

// AddFailCondition registers a condition checked after every applied result,
// in addition to health running out.
func (s *DefaultScorer) AddFailCondition(cond func(s Scorer) bool) {
	s.failConditions = append(s.failConditions, cond)
}

func (s *DefaultScorer) OnTotalScoreChanged(h func(old, new float64)) { s.totalScore.OnChange(h) }
func (s *DefaultScorer) OnAccuracyChanged(h func(old, new float64))   { s.accuracy.OnChange(h) }
func (s *DefaultScorer) OnHealthChanged(h func(old, new float64))     { s.health.OnChange(h) }
func (s *DefaultScorer) OnComboChanged(h func(old, new int))          { s.combo.OnChange(h) }
func (s *DefaultScorer) OnHighestComboChanged(h func(old, new int))   { s.highestCombo.OnChange(h) }
func (s *DefaultScorer) OnRankChanged(h func(old, new game.Rank))     { s.rank.OnChange(h) }
func (s *DefaultScorer) OnModeChanged(h func(old, new Mode))          { s.mode.OnChange(h) }

func (s *DefaultScorer) OnModsChanged(h func(mods []Mod)) {
	s.modsHandlers = append(s.modsHandlers, h)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
