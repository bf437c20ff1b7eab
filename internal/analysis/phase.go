package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/rdsim/internal/metrics"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D pairs two sampled series from one run.
type PhasePortrait2D struct {
	XName, YName string
	Points       []Point
}

// PhasePortrait plots series yName against xName, e.g. mean_b over mean_a.
func PhasePortrait(h metrics.History, xName, yName string) (*PhasePortrait2D, error) {
	xs, err := h.Series(xName)
	if err != nil {
		return nil, err
	}
	ys, err := h.Series(yName)
	if err != nil {
		return nil, err
	}

	p := &PhasePortrait2D{XName: xName, YName: yName, Points: make([]Point, len(xs))}
	for i := range xs {
		p.Points[i] = Point{xs[i], ys[i]}
	}
	return p, nil
}

// Crossings returns the sample indices where series rises through threshold.
func Crossings(series []float64, threshold float64) []int {
	var out []int
	for i := 1; i < len(series); i++ {
		if series[i-1] < threshold && series[i] >= threshold {
			out = append(out, i)
		}
	}
	return out
}

// PhasePortraitToASCII renders the portrait on a width x height canvas.
// Consecutive samples are drawn with increasing weight so the end of the
// trajectory stands out.
func PhasePortraitToASCII(p *PhasePortrait2D, width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	xs := make([]float64, len(p.Points))
	ys := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	minX, maxX := pad(floats.Min(xs), floats.Max(xs))
	minY, maxY := pad(floats.Min(ys), floats.Max(ys))

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	marks := []rune{'·', '•', '●'}
	for i, pt := range p.Points {
		col := int((pt.X - minX) / (maxX - minX) * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/(maxY-minY)*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		canvas[row][col] = marks[i*len(marks)/len(p.Points)]
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by 10% on each side, or to a unit span when flat.
func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		return lo - 0.5, hi + 0.5
	}
	return lo - span*0.1, hi + span*0.1
}
