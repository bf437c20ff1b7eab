package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorBorder = lipgloss.Color("#444466")
	colorDim    = lipgloss.Color("#666688")
	colorGood   = lipgloss.Color("#00ff88")
	colorWarn   = lipgloss.Color("#ffaa00")
	colorBad    = lipgloss.Color("#ff4444")
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	Title       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	Subtle      = lipgloss.NewStyle().Foreground(colorDim)
	KeyHint     = Subtle.Italic(true)
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorBorder)

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	StatusDone    = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	StatusError   = lipgloss.NewStyle().Bold(true).Foreground(colorBad)

	metricLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(14)
	metricValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
)

// Metric renders one "label value" line.
func Metric(label, value string) string {
	return metricLabel.Render(label) + metricValue.Render(value)
}

// ProgressBar renders fraction in [0,1] as a bar of the given width, coloured
// by how far along it is.
func ProgressBar(fraction float64, width int) string {
	filled := min(width, max(0, int(fraction*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	c := colorBad
	switch {
	case fraction > 0.8:
		c = colorGood
	case fraction > 0.4:
		c = colorWarn
	}
	return lipgloss.NewStyle().Foreground(c).Render(bar)
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(0, width)))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
