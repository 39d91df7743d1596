package game

import (
	"strings"

	"github.com/pkg/errors"
)

// HitResult is the outcome of a single judgement.
type HitResult uint8

const (
	None HitResult = iota // Not judged yet
	Miss
	Meh
	Ok
	Good
	Great
	Perfect
	SmallBonus
	LargeBonus
)

var hitResultNames = [...]string{
	None:       "none",
	Miss:       "miss",
	Meh:        "meh",
	Ok:         "ok",
	Good:       "good",
	Great:      "great",
	Perfect:    "perfect",
	SmallBonus: "small-bonus",
	LargeBonus: "large-bonus",
}

// AllHitResults returns every result after None, in order.
func AllHitResults() []HitResult {
	rs := make([]HitResult, 0, len(hitResultNames)-1)
	for r := Miss; int(r) < len(hitResultNames); r++ {
		rs = append(rs, r)
	}
	return rs
}

func (r HitResult) String() string {
	if int(r) < len(hitResultNames) {
		return hitResultNames[r]
	}
	return "unknown"
}

func (r HitResult) MarshalText() ([]byte, error) {
	if int(r) >= len(hitResultNames) {
		return nil, errors.Errorf("unknown hit result %d", r)
	}
	return []byte(hitResultNames[r]), nil
}

func (r *HitResult) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range hitResultNames {
		if n == name {
			*r = HitResult(i)
			return nil
		}
	}
	return errors.Errorf("unknown hit result %q", text)
}
