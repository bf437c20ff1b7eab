// Package optim searches parameter grids for the configuration whose run
// minimises an objective.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/reaction"
)

// Objective scores a finished run; lower is better.
type Objective func(*experiment.Result) float64

// TargetMetric scores a run by its distance from target on a named metric.
// Runs missing the metric score +Inf.
func TargetMetric(name string, target float64) Objective {
	return func(r *experiment.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return math.Abs(v - target)
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameter names for %d ranges", reaction.ErrParameterBounds, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: empty range for %s", reaction.ErrParameterBounds, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Evaluations is the number of runs Search performs.
func (g *GridSearch) Evaluations() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search builds and runs one experiment per grid point. Build errors abort
// the search; a cancelled context returns the best point found so far.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, objective, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return fmt.Errorf("build %v: %w", current, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		if val := objective(result); val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// ApplyParams sets the named rates (da, db, feed, kill) on p.
func ApplyParams(p reaction.Params, values map[string]float64) (reaction.Params, error) {
	for name, v := range values {
		switch name {
		case "da":
			p.Da = v
		case "db":
			p.Db = v
		case "feed":
			p.Feed = v
		case "kill":
			p.Kill = v
		default:
			return p, fmt.Errorf("%w: unknown parameter %q", reaction.ErrParameterBounds, name)
		}
	}
	return p, nil
}
