package theme

import "git.lost.host/meutraa/eotw/internal/game"

type Theme interface {
	RenderResult(result game.HitResult) string
	RenderRank(rank game.Rank) string
	// RenderHealth draws health in [0, 1] as a bar width cells wide.
	RenderHealth(health float64, width int) string
}
