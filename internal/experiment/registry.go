package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/rdsim/internal/metrics"
)

type Registry struct {
	metrics map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() metrics.Metric),
	}

	r.metrics["coverage"] = func() metrics.Metric { return metrics.NewCoverage(metrics.CoverageThreshold) }
	r.metrics["activity"] = func() metrics.Metric { return metrics.NewActivity() }
	r.metrics["peak_mean_b"] = func() metrics.Metric { return metrics.NewPeakB() }

	return r
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	out := make([]metrics.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
