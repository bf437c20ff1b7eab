package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/reaction"
	"github.com/san-kum/rdsim/internal/viz"
)

const (
	mapWidth     = 64
	mapHeight    = 20
	historyLimit = 300
)

type SampleMsg metrics.Sample

type DoneMsg struct {
	Result *experiment.Result
	Err    error
}

// WatchModel shows a running experiment. It only reacts to quit keys; the
// simulation itself runs on its own goroutine.
type WatchModel struct {
	sim    *reaction.Simulator
	total  int
	theme  viz.Theme
	means  []float64
	last   metrics.Sample
	done   bool
	err    error
	result *experiment.Result
	quit   bool
}

func NewWatchModel(sim *reaction.Simulator, total int, theme viz.Theme) WatchModel {
	return WatchModel{
		sim:   sim,
		total: total,
		theme: theme,
		means: make([]float64, 0, historyLimit),
	}
}

func (m WatchModel) Init() tea.Cmd { return nil }

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
	case SampleMsg:
		m.last = metrics.Sample(msg)
		m.means = append(m.means, m.last.MeanB)
		if len(m.means) > historyLimit {
			m.means = m.means[len(m.means)-historyLimit:]
		}
	case DoneMsg:
		m.done = true
		m.result, m.err = msg.Result, msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m WatchModel) View() string {
	_, b := m.sim.Fields()
	left := viz.Panel.Render(viz.Heatmap(b, mapWidth, mapHeight, m.theme))

	var s strings.Builder
	status := viz.StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = viz.StatusError.Render("STOPPED")
	case m.done:
		status = viz.StatusDone.Render("DONE")
	}
	preset := m.sim.Preset()
	if preset == "" {
		preset = "custom"
	}
	s.WriteString(viz.HeaderStyle.Render(strings.ToUpper(preset)) + "  " + status + "\n\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.last.Step) / float64(m.total)
	}
	s.WriteString(viz.ProgressBar(frac, 30) + fmt.Sprintf(" %d/%d\n\n", m.last.Step, m.total))

	if len(m.means) > 1 {
		s.WriteString(asciigraph.Plot(m.means,
			asciigraph.Height(6),
			asciigraph.Width(40),
			asciigraph.Caption("mean B")) + "\n\n")
	}

	s.WriteString(viz.Metric("mean A", fmt.Sprintf("%.4f", m.last.MeanA)) + "\n")
	s.WriteString(viz.Metric("mean B", fmt.Sprintf("%.4f", m.last.MeanB)) + "\n")
	s.WriteString(viz.Metric("std B", fmt.Sprintf("%.4f", m.last.StdB)) + "\n")
	s.WriteString(viz.Metric("coverage", fmt.Sprintf("%.1f%%", m.last.Coverage*100)) + "\n")
	if m.sim.FallbackSeeded() {
		s.WriteString(viz.Subtle.Render("uniform seeding (no image)") + "\n")
	}
	s.WriteString("\n" + viz.KeyHint.Render("q: quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", s.String())
}

// Watch runs exp on a background goroutine while showing its progress. If
// the user quits early the run is cancelled and the partial result is
// returned along with context.Canceled.
func Watch(ctx context.Context, exp *experiment.Experiment, total int, theme viz.Theme) (*experiment.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewWatchModel(exp.Simulator(), total, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	exp.AddObserver(experiment.ObserverFunc(func(s metrics.Sample) { p.Send(SampleMsg(s)) }))

	done := make(chan DoneMsg, 1)
	go func() {
		res, err := exp.Run(ctx)
		done <- DoneMsg{Result: res, Err: err}
		p.Send(DoneMsg{Result: res, Err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-done
		return nil, fmt.Errorf("watch view: %w", err)
	}

	cancel()
	out := <-done
	return out.Result, out.Err
}
