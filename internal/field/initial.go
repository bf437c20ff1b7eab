package field

// Initial is a seeded starting condition: both concentration fields plus the
// per-cell feed and kill maps that go with them.
type Initial struct {
	A, B       *Grid
	Feed, Kill ParamMap
}

// UniformInitial fills A with 1 and B with b, using the global parameters
// everywhere.
func UniformInitial(cols, rows int, b float64) *Initial {
	return &Initial{
		A:    NewGrid(cols, rows, 1),
		B:    NewGrid(cols, rows, b),
		Feed: Uniform{},
		Kill: Uniform{},
	}
}

// Fits reports whether both fields have the given shape and both parameter
// maps cover every cell.
func (in *Initial) Fits(cols, rows int) bool {
	if in == nil || in.A == nil || in.B == nil {
		return false
	}
	return in.A.Cols == cols && in.A.Rows == rows &&
		in.B.Cols == cols && in.B.Rows == rows &&
		in.A.Len() == cols*rows && in.B.Len() == cols*rows &&
		Covers(in.Feed, cols*rows) && Covers(in.Kill, cols*rows)
}
