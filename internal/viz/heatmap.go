package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rdsim/internal/field"
)

// rampLevels quantises the colour ramp so runs of similar cells share a
// style.
const rampLevels = 16

// Heatmap renders g in width x height characters using the upper half block,
// so each character shows two vertically stacked samples.
func Heatmap(g *field.Grid, width, height int, theme Theme) string {
	if g == nil || g.Len() == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var styles [rampLevels][rampLevels]*lipgloss.Style
	style := func(top, bottom int) lipgloss.Style {
		if s := styles[top][bottom]; s != nil {
			return *s
		}
		s := lipgloss.NewStyle().
			Foreground(theme.Ramp(float64(top) / (rampLevels - 1))).
			Background(theme.Ramp(float64(bottom) / (rampLevels - 1)))
		styles[top][bottom] = &s
		return s
	}
	level := func(v float64) int {
		return min(rampLevels-1, max(0, int(v*(rampLevels-1)+0.5)))
	}

	sub := height * 2
	var b strings.Builder
	for row := 0; row < height; row++ {
		yTop := (2 * row) * g.Rows / sub
		yBot := (2*row + 1) * g.Rows / sub
		for col := 0; col < width; col++ {
			x := col * g.Cols / width
			b.WriteString(style(level(g.At(x, yTop)), level(g.At(x, yBot))).Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Shade renders g with density characters only, for plain terminals and logs.
func Shade(g *field.Grid, width, height int) string {
	if g == nil || g.Len() == 0 || width <= 0 || height <= 0 {
		return ""
	}
	ramp := []rune(" .:-=+*#%@")

	var b strings.Builder
	for row := 0; row < height; row++ {
		y := row * g.Rows / height
		for col := 0; col < width; col++ {
			v := g.At(col*g.Cols/width, y)
			b.WriteRune(ramp[min(len(ramp)-1, max(0, int(v*float64(len(ramp)))))])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
