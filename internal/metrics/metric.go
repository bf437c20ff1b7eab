package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/rdsim/internal/field"
)

// Metric accumulates a scalar over the samples of a run.
type Metric interface {
	Name() string
	Observe(step int, a, b *field.Grid)
	Value() float64
	Reset()
}

// Coverage reports the pattern coverage at the last observation.
type Coverage struct {
	threshold float64
	value     float64
}

func NewCoverage(threshold float64) *Coverage {
	return &Coverage{threshold: threshold}
}

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) Observe(_ int, _, b *field.Grid) {
	c.value = coverage(b.Data, c.threshold)
}

func (c *Coverage) Value() float64 { return c.value }

func (c *Coverage) Reset() { c.value = 0 }

// Activity is the mean absolute per-cell change of B between consecutive
// observations, averaged over the run. A settled pattern approaches zero.
type Activity struct {
	prev    []float64
	total   float64
	samples int
}

func NewActivity() *Activity {
	return &Activity{}
}

func (m *Activity) Name() string { return "activity" }

func (m *Activity) Observe(_ int, _, b *field.Grid) {
	if len(m.prev) == len(b.Data) && len(b.Data) > 0 {
		diff := make([]float64, len(b.Data))
		floats.SubTo(diff, b.Data, m.prev)
		m.total += floats.Norm(diff, 1) / float64(len(diff))
		m.samples++
	}
	m.prev = append(m.prev[:0], b.Data...)
}

func (m *Activity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Activity) Reset() {
	m.prev = m.prev[:0]
	m.total = 0
	m.samples = 0
}

// PeakB tracks the highest mean B seen during a run.
type PeakB struct {
	peak float64
	seen bool
}

func NewPeakB() *PeakB {
	return &PeakB{}
}

func (p *PeakB) Name() string { return "peak_mean_b" }

func (p *PeakB) Observe(_ int, _, b *field.Grid) {
	if b.Len() == 0 {
		return
	}
	mean := floats.Sum(b.Data) / float64(b.Len())
	if !p.seen {
		p.peak, p.seen = mean, true
		return
	}
	p.peak = math.Max(p.peak, mean)
}

func (p *PeakB) Value() float64 { return p.peak }

func (p *PeakB) Reset() {
	p.peak = 0
	p.seen = false
}
