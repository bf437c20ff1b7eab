package viz

import (
	"strings"

	"github.com/san-kum/rdsim/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels; points outside are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Plot maps a cols x rows boolean source onto the canvas by nearest
// neighbour sampling.
func (c *Canvas) Plot(cols, rows int, on func(x, y int) bool) {
	c.Clear()
	sw, sh := c.Width*2, c.Height*4
	if cols <= 0 || rows <= 0 {
		return
	}
	for py := 0; py < sh; py++ {
		y := py * rows / sh
		for px := 0; px < sw; px++ {
			if on(px*cols/sw, y) {
				c.Set(px, py)
			}
		}
	}
}

// PlotField lights every sub-pixel whose cell exceeds threshold.
func (c *Canvas) PlotField(g *field.Grid, threshold float64) {
	c.Plot(g.Cols, g.Rows, func(x, y int) bool { return g.At(x, y) > threshold })
}

// PlotCells draws a w x h board of 0/1 cells.
func (c *Canvas) PlotCells(cells []uint8, w, h int) {
	c.Plot(w, h, func(x, y int) bool { return cells[y*w+x] != 0 })
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
