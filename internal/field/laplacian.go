package field

// Stencil weights. Changing them changes the pattern dynamics.
const (
	WeightCenter = -1.0
	WeightOrtho  = 0.2
	WeightDiag   = 0.05
)

// Laplacian evaluates the 3x3 stencil at an interior cell of a row-major
// field with the given column count. The caller guarantees 0 < x < cols-1
// and 0 < y < rows-1.
func Laplacian(data []float64, cols, x, y int) float64 {
	i := y*cols + x
	up, down := i-cols, i+cols

	sum := data[i] * WeightCenter
	sum += data[i-1] * WeightOrtho
	sum += data[i+1] * WeightOrtho
	sum += data[up] * WeightOrtho
	sum += data[down] * WeightOrtho
	sum += data[up-1] * WeightDiag
	sum += data[up+1] * WeightDiag
	sum += data[down-1] * WeightDiag
	sum += data[down+1] * WeightDiag
	return sum
}

// LaplacianWrap evaluates the stencil at any cell with toroidal neighbours.
func LaplacianWrap(data []float64, cols, rows, x, y int) float64 {
	xl, xr := wrap(x-1, cols), wrap(x+1, cols)
	yu, yd := wrap(y-1, rows)*cols, wrap(y+1, rows)*cols
	row := y * cols

	sum := data[row+x] * WeightCenter
	sum += data[row+xl] * WeightOrtho
	sum += data[row+xr] * WeightOrtho
	sum += data[yu+x] * WeightOrtho
	sum += data[yd+x] * WeightOrtho
	sum += data[yu+xl] * WeightDiag
	sum += data[yu+xr] * WeightDiag
	sum += data[yd+xl] * WeightDiag
	sum += data[yd+xr] * WeightDiag
	return sum
}

func wrap(v, n int) int {
	if v < 0 {
		return v + n
	}
	if v >= n {
		return v - n
	}
	return v
}
