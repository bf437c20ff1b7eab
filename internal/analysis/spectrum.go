package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rdsim/internal/field"
)

// PowerSpectrum returns the magnitude of each non-negative frequency of the
// mean-removed series. Index i corresponds to i cycles over the series.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}
	mean := stat.Mean(series, nil)
	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	coeff := fourier.NewFFT(n).Coefficients(nil, centered)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantPeriod returns the period, in steps, of the strongest oscillation
// in a series sampled every sampleEvery steps. It returns 0 when the series
// is flat or too short.
func DominantPeriod(series []float64, sampleEvery int) float64 {
	ps := PowerSpectrum(series)
	k := peak(ps)
	if k == 0 {
		return 0
	}
	return float64(len(series)) / float64(k) * float64(max(1, sampleEvery))
}

// DominantWavelength estimates the characteristic spatial scale of g in
// cells by averaging the row spectra.
func DominantWavelength(g *field.Grid) float64 {
	if g == nil || g.Cols < 4 {
		return 0
	}

	var total []float64
	for y := 0; y < g.Rows; y++ {
		ps := PowerSpectrum(g.Data[y*g.Cols : (y+1)*g.Cols])
		if total == nil {
			total = make([]float64, len(ps))
		}
		for i, v := range ps {
			total[i] += v
		}
	}

	k := peak(total)
	if k == 0 {
		return 0
	}
	return float64(g.Cols) / float64(k)
}

// peak returns the index of the largest non-DC bin, or 0 if every bin is
// zero.
func peak(ps []float64) int {
	best, bestV := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestV {
			best, bestV = i, ps[i]
		}
	}
	return best
}
