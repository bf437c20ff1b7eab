package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rdsim/internal/field"
)

// CoverageThreshold is the B concentration above which a cell counts as
// part of the pattern.
const CoverageThreshold = 0.25

// Sample summarises both fields at one step.
type Sample struct {
	Step     int     `csv:"step" json:"step"`
	MeanA    float64 `csv:"mean_a" json:"mean_a"`
	MeanB    float64 `csv:"mean_b" json:"mean_b"`
	StdB     float64 `csv:"std_b" json:"std_b"`
	MaxB     float64 `csv:"max_b" json:"max_b"`
	Coverage float64 `csv:"coverage" json:"coverage"`
}

// Measure computes a Sample for the given fields.
func Measure(step int, a, b *field.Grid) Sample {
	s := Sample{Step: step}
	if a.Len() == 0 || b.Len() == 0 {
		return s
	}
	s.MeanA = stat.Mean(a.Data, nil)
	s.MeanB, s.StdB = stat.PopMeanStdDev(b.Data, nil)
	s.MaxB = floats.Max(b.Data)
	s.Coverage = coverage(b.Data, CoverageThreshold)
	return s
}

func coverage(data []float64, threshold float64) float64 {
	if len(data) == 0 {
		return 0
	}
	n := 0
	for _, v := range data {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(data))
}

// History is an ordered list of samples from one run.
type History []Sample

var seriesNames = []string{"mean_a", "mean_b", "std_b", "max_b", "coverage"}

// SeriesNames lists the columns accepted by Series.
func SeriesNames() []string {
	out := make([]string, len(seriesNames))
	copy(out, seriesNames)
	return out
}

// Series extracts one column of the history by its CSV name.
func (h History) Series(name string) ([]float64, error) {
	var pick func(Sample) float64
	switch name {
	case "mean_a":
		pick = func(s Sample) float64 { return s.MeanA }
	case "mean_b":
		pick = func(s Sample) float64 { return s.MeanB }
	case "std_b":
		pick = func(s Sample) float64 { return s.StdB }
	case "max_b":
		pick = func(s Sample) float64 { return s.MaxB }
	case "coverage":
		pick = func(s Sample) float64 { return s.Coverage }
	default:
		return nil, fmt.Errorf("unknown series %q (have %v)", name, seriesNames)
	}

	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = pick(s)
	}
	return out, nil
}

func (h History) Last() (Sample, bool) {
	if len(h) == 0 {
		return Sample{}, false
	}
	return h[len(h)-1], true
}
