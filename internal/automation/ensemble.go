package automation

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/reaction"
)

// EnsembleResult is the final sample of each run plus coverage statistics
// across runs.
type EnsembleResult struct {
	Finals       []metrics.Sample
	MeanCoverage float64
	StdCoverage  float64
}

// RunEnsemble runs the same configuration with seeds seedStart..seedStart+n-1,
// one goroutine per run. Only the random perturbation differs between runs
// unless the seeder itself uses the generator.
func RunEnsemble(ctx context.Context, cfg reaction.Config, seeder reaction.Seeder, n, steps int, seedStart int64) (*EnsembleResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: ensemble needs at least one run, got %d", reaction.ErrParameterBounds, n)
	}
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps must be non-negative, got %d", reaction.ErrParameterBounds, steps)
	}
	finals := make([]metrics.Sample, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			runCfg := cfg
			runCfg.Seed = seedStart + int64(idx)
			runCfg.Workers = 0

			sim, err := reaction.New(runCfg, seeder)
			if err != nil {
				errs[idx] = err
				return
			}
			res, err := experiment.New(sim, experiment.Config{Steps: steps, SampleEvery: max(1, steps)}).Run(ctx)
			if err != nil {
				errs[idx] = err
				return
			}
			finals[idx], _ = res.History.Last()
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	cov := make([]float64, n)
	for i, s := range finals {
		cov[i] = s.Coverage
	}
	out := &EnsembleResult{Finals: finals}
	out.MeanCoverage, out.StdCoverage = stat.PopMeanStdDev(cov, nil)
	return out, nil
}
