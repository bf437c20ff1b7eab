package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is a heat map palette. B concentration ramps from Background
// through Primary to Accent; Muted is used for labels drawn over it.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
}

var (
	ThemeBegin = Theme{
		Name:       "begin",
		Background: lipgloss.Color("#141414"),
		Primary:    lipgloss.Color("#f2efe6"),
		Accent:     lipgloss.Color("#e0312b"),
		Muted:      lipgloss.Color("#666666"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: lipgloss.Color("#04121f"),
		Primary:    lipgloss.Color("#0077be"),
		Accent:     lipgloss.Color("#b8f3ff"),
		Muted:      lipgloss.Color("#3d6b85"),
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Background: lipgloss.Color("#001100"),
		Primary:    lipgloss.Color("#00cc00"),
		Accent:     lipgloss.Color("#ccffcc"),
		Muted:      lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Background: lipgloss.Color("#000000"),
		Primary:    lipgloss.Color("#888888"),
		Accent:     lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#555555"),
	}

	ThemeCoral = Theme{
		Name:       "coral",
		Background: lipgloss.Color("#1b0c1a"),
		Primary:    lipgloss.Color("#ff6f59"),
		Accent:     lipgloss.Color("#fff3b0"),
		Muted:      lipgloss.Color("#7a4a5c"),
	}

	Themes = []Theme{ThemeBegin, ThemeOcean, ThemeRetro, ThemeMinimal, ThemeCoral}
)

// GetTheme returns a theme by name, falling back to begin.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeBegin
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Ramp returns the heat map colour for v in [0,1].
func (t Theme) Ramp(v float64) lipgloss.Color {
	v = min(1, max(0, v))
	bg, mid, hi := hex(t.Background), hex(t.Primary), hex(t.Accent)
	var c colorful.Color
	if v < 0.5 {
		c = bg.BlendLab(mid, v*2)
	} else {
		c = mid.BlendLab(hi, (v-0.5)*2)
	}
	return lipgloss.Color(c.Clamped().Hex())
}

func hex(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}
	}
	return col
}
