package field

import (
	"math"
	"testing"
)

func TestLaplacianUniform(t *testing.T) {
	for _, v := range []float64{0, 0.25, 1} {
		g := NewGrid(6, 5, v)
		for y := 1; y < g.Rows-1; y++ {
			for x := 1; x < g.Cols-1; x++ {
				if lap := Laplacian(g.Data, g.Cols, x, y); math.Abs(lap) > 1e-12 {
					t.Errorf("v=%v (%d,%d): laplacian = %g, want ~0", v, x, y, lap)
				}
			}
		}
		for y := 0; y < g.Rows; y++ {
			for x := 0; x < g.Cols; x++ {
				if lap := LaplacianWrap(g.Data, g.Cols, g.Rows, x, y); math.Abs(lap) > 1e-12 {
					t.Errorf("wrap v=%v (%d,%d): laplacian = %g, want ~0", v, x, y, lap)
				}
			}
		}
	}
}

func TestLaplacianPoint(t *testing.T) {
	g := NewGrid(5, 5, 0)
	g.Set(2, 2, 1)

	tests := []struct {
		x, y int
		want float64
	}{
		{2, 2, -1},
		{1, 2, 0.2},
		{3, 2, 0.2},
		{2, 1, 0.2},
		{2, 3, 0.2},
		{1, 1, 0.05},
		{3, 3, 0.05},
	}

	for _, tt := range tests {
		if got := Laplacian(g.Data, g.Cols, tt.x, tt.y); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Laplacian(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestLaplacianWrapMatchesInterior(t *testing.T) {
	g := NewGrid(7, 6, 0)
	for i := range g.Data {
		g.Data[i] = float64(i%5) * 0.1
	}
	for y := 1; y < g.Rows-1; y++ {
		for x := 1; x < g.Cols-1; x++ {
			a := Laplacian(g.Data, g.Cols, x, y)
			b := LaplacianWrap(g.Data, g.Cols, g.Rows, x, y)
			if a != b {
				t.Fatalf("(%d,%d): interior %v != wrapped %v", x, y, a, b)
			}
		}
	}
}

func TestLaplacianWrapCorner(t *testing.T) {
	g := NewGrid(4, 4, 0)
	g.Set(3, 3, 1)

	if got := LaplacianWrap(g.Data, 4, 4, 0, 0); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("corner diagonal wrap = %v, want 0.05", got)
	}
	if got := LaplacianWrap(g.Data, 4, 4, 0, 3); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("horizontal wrap = %v, want 0.2", got)
	}
}

func TestParamMaps(t *testing.T) {
	s := NewScaled(3)
	s.Factor[1], s.Floor[1] = 0.8, 0.005
	s.Factor[2], s.Floor[2] = 0.5, 0.04

	tests := []struct {
		name string
		m    ParamMap
		i    int
		want float64
	}{
		{"uniform", Uniform{}, 2, 0.036},
		{"per cell", PerCell{0.01, 0.02, 0.03}, 1, 0.02},
		{"scaled identity", s, 0, 0.036},
		{"scaled factor", s, 1, 0.036 * 0.8},
		{"scaled floor", s, 2, 0.04},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.At(tt.i, 0.036); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("At(%d) = %v, want %v", tt.i, got, tt.want)
			}
		})
	}
}

func TestGridCloneIndependent(t *testing.T) {
	g := NewGrid(3, 2, 0.5)
	c := g.Clone()
	c.Set(1, 1, 0.9)

	if g.At(1, 1) != 0.5 {
		t.Error("Clone shares storage with original")
	}
	if g.Equal(c) {
		t.Error("Equal reported modified clone as equal")
	}
	if !g.InBounds(2, 1) || g.InBounds(3, 0) || g.InBounds(0, -1) {
		t.Error("InBounds wrong at edges")
	}
}

func TestInitialFits(t *testing.T) {
	in := UniformInitial(4, 3, 0.05)
	if !in.Fits(4, 3) {
		t.Error("expected initial to fit its own shape")
	}
	if in.Fits(3, 4) {
		t.Error("expected transposed shape to be rejected")
	}

	in.Feed = PerCell(make([]float64, 12))
	in.Kill = NewScaled(12)
	if !in.Fits(4, 3) {
		t.Error("expected full-size parameter maps to fit")
	}
	in.Feed = PerCell(make([]float64, 5))
	if in.Fits(4, 3) {
		t.Error("expected short feed map to be rejected")
	}
	in.Feed = nil
	in.Kill = Scaled{Factor: make([]float64, 12), Floor: make([]float64, 11)}
	if in.Fits(4, 3) {
		t.Error("expected scaled map with a short floor to be rejected")
	}
	if lo, hi := in.B.Bounds(); lo != 0.05 || hi != 0.05 {
		t.Errorf("B bounds = [%v,%v], want 0.05", lo, hi)
	}
}
