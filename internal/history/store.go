// Package history keeps finished plays in a SQLite database.
package history

import (
	"context"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("no results for chart")

type Record struct {
	ID     string
	Chart  string // Chart hash
	Result score.Result
}

type Store interface {
	Save(ctx context.Context, chart *game.Chart, result *score.Result) (string, error)
	Load(ctx context.Context, chart *game.Chart) ([]Record, error)
	// Best returns the highest scoring record of the chart.
	Best(ctx context.Context, chart *game.Chart) (*Record, error)
	Close() error
}
