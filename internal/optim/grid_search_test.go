package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/reaction"
)

func builder(t *testing.T) func(map[string]float64) (*experiment.Experiment, error) {
	t.Helper()
	return func(values map[string]float64) (*experiment.Experiment, error) {
		cfg := reaction.DefaultConfig()
		cfg.Cols, cfg.Rows = 12, 12
		cfg.Perturb.Enabled = false
		params, err := ApplyParams(cfg.Params, values)
		if err != nil {
			return nil, err
		}
		cfg.Params = params
		sim, err := reaction.New(cfg, nil)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(sim, experiment.Config{Steps: 5, SampleEvery: 5})
		exp.AddMetric(metrics.NewPeakB())
		return exp, nil
	}
}

func TestGridSearchFindsTarget(t *testing.T) {
	g, err := NewGridSearch([]string{"feed", "kill"}, [][]float64{{0.01, 0.03, 0.05}, {0.05, 0.06}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Evaluations() != 6 {
		t.Errorf("expected 6 evaluations, got %d", g.Evaluations())
	}

	calls := 0
	build := builder(t)
	counting := func(v map[string]float64) (*experiment.Experiment, error) {
		calls++
		return build(v)
	}

	best, score, err := g.Search(context.Background(), counting, TargetMetric("peak_mean_b", 0))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 6 {
		t.Errorf("expected 6 builds, got %d", calls)
	}
	if len(best) != 2 {
		t.Fatalf("expected both parameters in result, got %v", best)
	}
	if math.IsInf(score, 1) {
		t.Error("expected a finite score")
	}
}

func TestGridSearchBuildError(t *testing.T) {
	g, err := NewGridSearch([]string{"bogus"}, [][]float64{{1}})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = g.Search(context.Background(), builder(t), TargetMetric("peak_mean_b", 0))
	if !errors.Is(err, reaction.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	g, _ := NewGridSearch([]string{"feed"}, [][]float64{{0.02, 0.03}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, builder(t), TargetMetric("peak_mean_b", 0)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewGridSearchInvalid(t *testing.T) {
	if _, err := NewGridSearch([]string{"feed"}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := NewGridSearch([]string{"feed"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestTargetMetric(t *testing.T) {
	obj := TargetMetric("coverage", 0.3)
	if got := obj(&experiment.Result{Metrics: map[string]float64{"coverage": 0.1}}); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected 0.2, got %v", got)
	}
	if !math.IsInf(obj(&experiment.Result{Metrics: map[string]float64{}}), 1) {
		t.Error("expected +Inf for missing metric")
	}
}

func TestApplyParams(t *testing.T) {
	p, err := ApplyParams(reaction.Params{Da: 1, Db: 0.5}, map[string]float64{"feed": 0.02, "kill": 0.05, "db": 0.4})
	if err != nil {
		t.Fatal(err)
	}
	if p.Feed != 0.02 || p.Kill != 0.05 || p.Db != 0.4 || p.Da != 1 {
		t.Errorf("unexpected params %+v", p)
	}
}
