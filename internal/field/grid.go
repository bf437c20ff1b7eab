package field

// Grid is a row-major scalar field. Cell (x, y) lives at Data[y*Cols+x].
type Grid struct {
	Cols, Rows int
	Data       []float64
}

func NewGrid(cols, rows int, v float64) *Grid {
	g := &Grid{Cols: cols, Rows: rows, Data: make([]float64, cols*rows)}
	if v != 0 {
		g.Fill(v)
	}
	return g
}

func (g *Grid) Len() int { return len(g.Data) }

func (g *Grid) Index(x, y int) int { return y*g.Cols + x }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Cols && y < g.Rows
}

func (g *Grid) At(x, y int) float64 { return g.Data[y*g.Cols+x] }

func (g *Grid) Set(x, y int, v float64) { g.Data[y*g.Cols+x] = v }

func (g *Grid) Fill(v float64) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

func (g *Grid) Clone() *Grid {
	c := &Grid{Cols: g.Cols, Rows: g.Rows, Data: make([]float64, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

// CopyFrom overwrites g with src. Both grids must have the same shape.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.Data, src.Data)
}

// Equal reports whether both grids have the same shape and identical values.
func (g *Grid) Equal(o *Grid) bool {
	if g.Cols != o.Cols || g.Rows != o.Rows {
		return false
	}
	for i, v := range g.Data {
		if o.Data[i] != v {
			return false
		}
	}
	return true
}

// Bounds returns the smallest and largest value in the grid.
func (g *Grid) Bounds() (lo, hi float64) {
	if len(g.Data) == 0 {
		return 0, 0
	}
	lo, hi = g.Data[0], g.Data[0]
	for _, v := range g.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
