package game

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

type Chart struct {
	Notes      []*Note    `json:"notes"`
	Difficulty Difficulty `json:"difficulty"`
}

func (c *Chart) HitObjects() []HitObject {
	objects := make([]HitObject, len(c.Notes))
	for i, n := range c.Notes {
		objects[i] = n
	}
	return objects
}

// Counts returns the number of top level notes, holds and mines.
func (c *Chart) Counts() (notes, holds, mines int) {
	for _, n := range c.Notes {
		switch n.Kind {
		case Mine:
			mines++
		case Hold, Roll:
			holds++
			notes++
		default:
			notes++
		}
	}
	return notes, holds, mines
}

// Hash identifies the chart content, independent of where it was loaded from.
func (c *Chart) Hash() string {
	data, err := json.Marshal(c)
	if nil != err {
		// Every field of a chart is marshallable
		panic(err)
	}
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func DecodeChart(r io.Reader) (*Chart, error) {
	var chart Chart
	if err := json.NewDecoder(r).Decode(&chart); nil != err {
		return nil, errors.Wrap(err, "unable to decode chart")
	}
	return &chart, nil
}

func LoadChart(file string) (*Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return DecodeChart(f)
}
