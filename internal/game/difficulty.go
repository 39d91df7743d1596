package game

type Difficulty struct {
	Name string `json:"name"`
	Type string `json:"type"`

	// Scales the health lost on a miss, 0 leaves it untouched
	DrainRate float64 `json:"drainRate,omitempty"`
}

func (d Difficulty) NKeys() uint8 {
	if n, ok := NKeyMap[d.Type]; ok {
		return n
	}
	return 4
}

var NKeyMap = map[string]uint8{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}
