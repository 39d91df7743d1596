package theme

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"git.lost.host/meutraa/eotw/internal/game"
)

var _ Theme = (*DefaultTheme)(nil)

// DefaultTheme colours labels with 24 bit ANSI escapes unless Plain is set.
type DefaultTheme struct {
	Plain bool
}

func (t *DefaultTheme) paint(c color.RGBA, s string) string {
	if t.Plain {
		return s
	}
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func (t *DefaultTheme) RenderResult(result game.HitResult) string {
	return t.paint(getResultColor(result), fmt.Sprintf("%11v", resultNames[result]))
}

func (t *DefaultTheme) RenderRank(rank game.Rank) string {
	c, ok := rankColors[rank]
	if !ok {
		c = white
	}
	return t.paint(c, rank.String())
}

func (t *DefaultTheme) RenderHealth(health float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(1, health)) * float64(width)))
	bar := strings.Repeat(healthSym, filled) + strings.Repeat(emptySym, width-filled)
	c := resultColors[game.Good]
	if health < 0.3 {
		c = resultColors[game.Miss]
	}
	return t.paint(c, bar)
}

const (
	healthSym = "█"
	emptySym  = "░"
)

var (
	white       = color.RGBA{255, 255, 255, 255}
	resultNames = map[game.HitResult]string{
		game.None:       "None",
		game.Miss:       "Miss",
		game.Meh:        "Meh",
		game.Ok:         "Okay",
		game.Good:       "Good",
		game.Great:      "Great",
		game.Perfect:    "Marvelous",
		game.SmallBonus: "Bonus",
		game.LargeBonus: "Large Bonus",
	}
	resultColors = map[game.HitResult]color.RGBA{
		game.Miss:       {236, 30, 0, 255},    // red
		game.Meh:        {106, 106, 106, 255}, // grey
		game.Ok:         {236, 128, 0, 255},   // orange
		game.Good:       {0, 236, 128, 255},   // green
		game.Great:      {0, 118, 236, 255},   // blue
		game.Perfect:    {173, 236, 236, 255}, // light blue
		game.SmallBonus: {236, 195, 0, 255},   // yellow
		game.LargeBonus: {236, 0, 106, 255},   // pink
	}
	rankColors = map[game.Rank]color.RGBA{
		game.RankD:  {236, 30, 0, 255},
		game.RankC:  {106, 0, 236, 255},
		game.RankB:  {0, 118, 236, 255},
		game.RankA:  {0, 236, 128, 255},
		game.RankS:  {236, 195, 0, 255},
		game.RankSH: {192, 192, 192, 255},
		game.RankX:  {236, 195, 0, 255},
		game.RankXH: {192, 192, 192, 255},
	}
)

func getResultColor(r game.HitResult) color.RGBA {
	col, ok := resultColors[r]
	if !ok {
		return white
	}
	return col
}
