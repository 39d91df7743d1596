package testdata

import (
	"strings"

	"git.lost.host/meutraa/eotw/internal/game"
)

// GetChart returns a chart of two taps, a hold with two ticks, a roll with
// two ticks, a mine and a final tap. Nine of its objects are scored.
func GetChart() (*game.Chart, error) {
	return game.DecodeChart(strings.NewReader(data))
}

const data = `{
  "difficulty": {"name": "Beginner", "type": "dance-single"},
  "notes": [
    {"index": 0, "kind": "tap", "time": 1000000000},
    {"index": 1, "kind": "tap", "time": 1500000000},
    {"index": 2, "kind": "hold", "time": 2000000000, "timeEnd": 3000000000, "nested": [
      {"index": 2, "kind": "hold-tick", "time": 2333333333},
      {"index": 2, "kind": "hold-tick", "time": 2666666666},
      {"index": 2, "kind": "hold-tail", "time": 3000000000}
    ]},
    {"index": 3, "kind": "roll", "time": 3000000000, "timeEnd": 4000000000, "nested": [
      {"index": 3, "kind": "roll-tick", "time": 3333333333},
      {"index": 3, "kind": "roll-tick", "time": 3666666666}
    ]},
    {"index": 0, "kind": "mine", "time": 4500000000},
    {"index": 3, "kind": "tap", "time": 5000000000}
  ]
}`
