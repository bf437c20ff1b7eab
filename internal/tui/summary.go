// Package tui renders run summaries and the live watch view.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rdsim/internal/reaction"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/viz"
)

// RunSummary renders the metadata and final metrics of a run in a panel.
func RunSummary(meta storage.RunMetadata) string {
	var s strings.Builder
	title := meta.ID
	if title == "" {
		title = "run"
	}
	s.WriteString(viz.Title.Render(title) + "\n")

	preset := meta.Preset
	if preset == "" {
		preset = "custom"
	}
	s.WriteString(viz.Metric("preset", preset) + "\n")
	s.WriteString(viz.Metric("grid", fmt.Sprintf("%dx%d %s", meta.Cols, meta.Rows, meta.Boundary)) + "\n")
	s.WriteString(viz.Metric("feed/kill", fmt.Sprintf("%.4f / %.4f", meta.Feed, meta.Kill)) + "\n")
	s.WriteString(viz.Metric("diffusion", fmt.Sprintf("%.2f / %.2f", meta.Da, meta.Db)) + "\n")
	s.WriteString(viz.Metric("steps", fmt.Sprintf("%d (dt %.2f)", meta.Steps, meta.Dt)) + "\n")
	seeding := "image"
	if meta.Fallback {
		seeding = "uniform fallback"
	}
	if meta.Image != "" {
		seeding += " " + meta.Image
	}
	s.WriteString(viz.Metric("seeding", seeding) + "\n")

	if len(meta.Metrics) > 0 {
		s.WriteString(viz.Separator(36) + "\n")
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s.WriteString(viz.Metric(name, fmt.Sprintf("%.6f", meta.Metrics[name])) + "\n")
		}
	}

	return viz.Panel.Render(strings.TrimRight(s.String(), "\n"))
}

// PresetTable lists the presets, marking the active one.
func PresetTable(presets []reaction.Preset, active string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	rows := []string{header.Render(fmt.Sprintf("  %-3s %-10s %6s %6s %7s %7s", "#", "NAME", "DA", "DB", "FEED", "KILL"))}
	for i, p := range presets {
		line := fmt.Sprintf("%-3d %-10s %6.2f %6.2f %7.3f %7.3f", i+1, p.Name, p.Da, p.Db, p.Feed, p.Kill)
		if p.Name == active {
			rows = append(rows, viz.StatusRunning.Render("> "+line))
			continue
		}
		rows = append(rows, "  "+line)
	}
	return strings.Join(rows, "\n")
}
