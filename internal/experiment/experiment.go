package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/field"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/reaction"
	"github.com/san-kum/rdsim/internal/seed"
)

type Config struct {
	Steps       int
	SampleEvery int
}

// Observer receives every sample as it is taken.
type Observer interface {
	OnSample(s metrics.Sample)
}

type ObserverFunc func(metrics.Sample)

func (f ObserverFunc) OnSample(s metrics.Sample) { f(s) }

type Result struct {
	History  metrics.History
	Metrics  map[string]float64
	Steps    int
	Elapsed  time.Duration
	A, B     *field.Grid
	Preset   string
	Fallback bool
}

type Experiment struct {
	cfg       Config
	sim       *reaction.Simulator
	metrics   []metrics.Metric
	observers []Observer
}

func New(sim *reaction.Simulator, cfg Config) *Experiment {
	return &Experiment{cfg: cfg, sim: sim}
}

func (e *Experiment) AddMetric(m metrics.Metric) { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o Observer)     { e.observers = append(e.observers, o) }

// Run advances the simulator cfg.Steps times, sampling at step 0 and every
// cfg.SampleEvery steps after that. A cancelled context stops the run between
// steps and returns the partial result with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.sim == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if e.cfg.Steps < 0 {
		return nil, fmt.Errorf("%w: steps must be non-negative, got %d", reaction.ErrParameterBounds, e.cfg.Steps)
	}
	every := max(1, e.cfg.SampleEvery)

	for _, m := range e.metrics {
		m.Reset()
	}

	result := &Result{
		History: make(metrics.History, 0, e.cfg.Steps/every+2),
		Metrics: make(map[string]float64),
	}
	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		result.A, result.B = e.sim.Fields()
		result.Preset = e.sim.Preset()
		result.Fallback = e.sim.FallbackSeeded()
		for _, m := range e.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	e.sample(result, 0)
	for i := 1; i <= e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		e.sim.Step()
		result.Steps = i
		if i%every == 0 || i == e.cfg.Steps {
			e.sample(result, i)
		}
	}
	return result, nil
}

func (e *Experiment) sample(result *Result, step int) {
	var s metrics.Sample
	e.sim.View(func(a, b *field.Grid) {
		s = metrics.Measure(step, a, b)
		for _, m := range e.metrics {
			m.Observe(step, a, b)
		}
	})
	result.History = append(result.History, s)
	for _, o := range e.observers {
		o.OnSample(s)
	}
}

// Simulator returns the underlying simulator for interactive control.
func (e *Experiment) Simulator() *reaction.Simulator {
	return e.sim
}

// Build creates a simulator from a file config. An empty image path seeds
// uniformly.
func Build(cfg *config.Config, logger *slog.Logger) (*reaction.Simulator, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rc, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Seed.Options.Validate(); err != nil {
		return nil, err
	}

	var seeder reaction.Seeder
	if cfg.Seed.Image != "" {
		seeder = seed.NewFileSeeder(cfg.Seed.Image, cfg.SeedOptions())
	}

	opts := []reaction.Option{reaction.WithLogger(logger)}
	if cfg.Preset != "" {
		opts = append(opts, reaction.WithPreset(cfg.Preset))
	}
	sim, err := reaction.New(rc, seeder, opts...)
	if err != nil {
		return nil, err
	}

	cols, rows := sim.Size()
	logger.Debug("simulator ready",
		"cols", cols, "rows", rows,
		"preset", sim.Preset(),
		"boundary", sim.Boundary().String(),
		"fallback", sim.FallbackSeeded())
	return sim, nil
}
