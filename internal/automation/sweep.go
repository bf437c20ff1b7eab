package automation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/reaction"
)

// Range is an inclusive, evenly spaced set of values.
type Range struct {
	Min, Max float64
	Count    int
}

func (r Range) Values() []float64 {
	if r.Count <= 1 {
		return []float64{r.Min}
	}
	step := (r.Max - r.Min) / float64(r.Count-1)
	out := make([]float64, r.Count)
	for i := range out {
		out[i] = r.Min + float64(i)*step
	}
	out[len(out)-1] = r.Max
	return out
}

// ParameterSweep runs one simulation per (feed, kill) pair of the grid.
type ParameterSweep struct {
	Base   reaction.Config
	Seeder reaction.Seeder
	Feed   Range
	Kill   Range
	Steps  int
	// Workers bounds concurrent simulations; 0 uses GOMAXPROCS.
	Workers int
}

type SweepResult struct {
	Feed       float64 `csv:"feed"`
	Kill       float64 `csv:"kill"`
	MeanB      float64 `csv:"mean_b"`
	StdB       float64 `csv:"std_b"`
	Coverage   float64 `csv:"coverage"`
	Activity   float64 `csv:"activity"`
	Wavelength float64 `csv:"wavelength"`
}

// RunSweep evaluates every grid point. Results are ordered feed-major, the
// same order as the nested ranges.
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sweep.Steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", reaction.ErrParameterBounds)
	}

	feeds, kills := sweep.Feed.Values(), sweep.Kill.Values()
	results := make([]SweepResult, len(feeds)*len(kills))

	g, ctx := errgroup.WithContext(ctx)
	workers := sweep.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, f := range feeds {
		f := f
		for j, k := range kills {
			k := k
			idx := i*len(kills) + j
			g.Go(func() error {
				cfg := sweep.Base
				cfg.Params.Feed, cfg.Params.Kill = f, k
				cfg.Workers = 0

				sim, err := reaction.New(cfg, sweep.Seeder)
				if err != nil {
					return fmt.Errorf("feed=%.4f kill=%.4f: %w", f, k, err)
				}

				exp := experiment.New(sim, experiment.Config{Steps: sweep.Steps, SampleEvery: max(1, sweep.Steps/10)})
				activity := metrics.NewActivity()
				exp.AddMetric(activity)
				res, err := exp.Run(ctx)
				if err != nil {
					return err
				}

				last, _ := res.History.Last()
				results[idx] = SweepResult{
					Feed:       f,
					Kill:       k,
					MeanB:      last.MeanB,
					StdB:       last.StdB,
					Coverage:   last.Coverage,
					Activity:   res.Metrics[activity.Name()],
					Wavelength: analysis.DominantWavelength(res.B),
				}
				logger.Debug("sweep point done", "feed", f, "kill", k, "coverage", last.Coverage)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
