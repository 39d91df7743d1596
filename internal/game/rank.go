package game

import "github.com/pkg/errors"

// Rank is the letter grade of a play.
type Rank uint8

const (
	RankD Rank = iota
	RankC
	RankB
	RankA
	RankS
	RankSH // Silver S
	RankX
	RankXH // Silver SS
)

var rankNames = [...]string{
	RankD:  "D",
	RankC:  "C",
	RankB:  "B",
	RankA:  "A",
	RankS:  "S",
	RankSH: "SH",
	RankX:  "SS",
	RankXH: "SSH",
}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return "?"
}

func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	for i, n := range rankNames {
		if n == string(text) {
			*r = Rank(i)
			return nil
		}
	}
	return errors.Errorf("unknown rank %q", text)
}
