package field

import "math"

// ParamMap resolves a reaction parameter for cell i given the global value.
// Len is the number of cells the map covers, or -1 when it covers any grid.
type ParamMap interface {
	At(i int, global float64) float64
	Len() int
}

// Uniform applies the global value everywhere.
type Uniform struct{}

func (Uniform) At(_ int, global float64) float64 { return global }

func (Uniform) Len() int { return -1 }

// PerCell holds absolute per-cell values that ignore the global value.
type PerCell []float64

func (p PerCell) At(i int, _ float64) float64 { return p[i] }

func (p PerCell) Len() int { return len(p) }

// Scaled derives each cell's value from the global one as
// max(Floor[i], global*Factor[i]), so switching the global value still
// reaches every cell.
type Scaled struct {
	Factor []float64
	Floor  []float64
}

// NewScaled returns a Scaled map of n cells with factor 1 and floor 0.
func NewScaled(n int) Scaled {
	s := Scaled{Factor: make([]float64, n), Floor: make([]float64, n)}
	for i := range s.Factor {
		s.Factor[i] = 1
	}
	return s
}

func (s Scaled) At(i int, global float64) float64 {
	return math.Max(s.Floor[i], global*s.Factor[i])
}

// Len is the shorter of the two slices.
func (s Scaled) Len() int { return min(len(s.Factor), len(s.Floor)) }

// Covers reports whether m resolves every one of n cells. A nil map does.
func Covers(m ParamMap, n int) bool {
	if m == nil {
		return true
	}
	l := m.Len()
	return l < 0 || l == n
}

// Resolve expands a map into absolute values for n cells.
func Resolve(m ParamMap, n int, global float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.At(i, global)
	}
	return out
}
