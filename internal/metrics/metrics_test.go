package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rdsim/internal/field"
)

func TestMeasure(t *testing.T) {
	a := field.NewGrid(2, 2, 1)
	b := field.NewGrid(2, 2, 0)
	b.Data = []float64{0, 0.2, 0.4, 1.0}

	s := Measure(7, a, b)

	if s.Step != 7 {
		t.Errorf("expected step 7, got %d", s.Step)
	}
	if s.MeanA != 1 {
		t.Errorf("expected mean A 1, got %f", s.MeanA)
	}
	if math.Abs(s.MeanB-0.4) > 1e-12 {
		t.Errorf("expected mean B 0.4, got %f", s.MeanB)
	}
	// population variance: (0.16+0.04+0+0.36)/4 = 0.14
	if math.Abs(s.StdB-math.Sqrt(0.14)) > 1e-12 {
		t.Errorf("expected std B %f, got %f", math.Sqrt(0.14), s.StdB)
	}
	if s.MaxB != 1 {
		t.Errorf("expected max B 1, got %f", s.MaxB)
	}
	if s.Coverage != 0.5 {
		t.Errorf("expected coverage 0.5, got %f", s.Coverage)
	}
}

func TestHistorySeries(t *testing.T) {
	h := History{
		{Step: 0, MeanB: 0.1, Coverage: 0.2},
		{Step: 10, MeanB: 0.3, Coverage: 0.4},
	}

	got, err := h.Series("mean_b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 0.1 || got[1] != 0.3 {
		t.Errorf("unexpected series %v", got)
	}

	for _, name := range SeriesNames() {
		if _, err := h.Series(name); err != nil {
			t.Errorf("series %s: %v", name, err)
		}
	}
	if _, err := h.Series("energy"); err == nil {
		t.Error("expected error for unknown series")
	}

	last, ok := h.Last()
	if !ok || last.Step != 10 {
		t.Errorf("unexpected last sample %+v", last)
	}
	if _, ok := (History{}).Last(); ok {
		t.Error("empty history should have no last sample")
	}
}

func TestActivity(t *testing.T) {
	m := NewActivity()
	a := field.NewGrid(2, 1, 1)
	b := field.NewGrid(2, 1, 0)

	m.Observe(0, a, b)
	if m.Value() != 0 {
		t.Error("expected zero activity after one observation")
	}

	b.Data = []float64{0.5, 0.1}
	m.Observe(1, a, b)
	if math.Abs(m.Value()-0.3) > 1e-12 {
		t.Errorf("expected activity 0.3, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero activity after reset")
	}
}

func TestPeakAndCoverage(t *testing.T) {
	p := NewPeakB()
	c := NewCoverage(CoverageThreshold)
	a := field.NewGrid(2, 1, 1)

	for _, data := range [][]float64{{0.1, 0.1}, {0.9, 0.5}, {0.2, 0.0}} {
		b := &field.Grid{Cols: 2, Rows: 1, Data: data}
		p.Observe(0, a, b)
		c.Observe(0, a, b)
	}

	if math.Abs(p.Value()-0.7) > 1e-12 {
		t.Errorf("expected peak 0.7, got %f", p.Value())
	}
	if c.Value() != 0 {
		t.Errorf("expected final coverage 0, got %f", c.Value())
	}

	p.Reset()
	if p.Value() != 0 {
		t.Error("expected zero peak after reset")
	}
}
