// Package life runs Conway's Game of Life on a toroidal grid, seeded from
// the same image masks as the reaction-diffusion simulator.
package life

import (
	"fmt"
	"image"
	"math/rand"

	"github.com/san-kum/rdsim/internal/seed"
)

// Life implements B3/S23 with toroidal wrapping.
type Life struct {
	w, h    int
	cur     []uint8
	nxt     []uint8
	initial []uint8
	gen     int
}

func New(w, h int) (*Life, error) {
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: %dx%d", seed.ErrBadGrid, w, h)
	}
	cells := make([]uint8, w*h)
	return &Life{
		w:       w,
		h:       h,
		cur:     cells,
		nxt:     make([]uint8, len(cells)),
		initial: make([]uint8, len(cells)),
	}, nil
}

// FromMask marks every active or accent cell of m alive.
func FromMask(m *seed.Mask) *Life {
	l, _ := New(m.Cols, m.Rows)
	for i, c := range m.Cells {
		if c != seed.Background {
			l.cur[i] = 1
		}
	}
	copy(l.initial, l.cur)
	return l
}

// FromImage builds a board from img using brightness seeding: cells darker
// than the average become alive.
func FromImage(img image.Image, cols, rows int, rng *rand.Rand) (*Life, *seed.Mask, error) {
	m, err := seed.BuildMask(img, cols, rows, seed.CellularOptions(), rng)
	if err != nil {
		return nil, nil, err
	}
	return FromMask(m), m, nil
}

func (l *Life) Size() (w, h int) { return l.w, l.h }

// Cells exposes the current grid values, 1 for alive.
func (l *Life) Cells() []uint8 { return l.cur }

func (l *Life) Alive(x, y int) bool { return l.cur[y*l.w+x] == 1 }

// Set changes one cell without affecting the reset snapshot.
func (l *Life) Set(x, y int, alive bool) {
	var v uint8
	if alive {
		v = 1
	}
	l.cur[y*l.w+x] = v
}

func (l *Life) Generation() int { return l.gen }

func (l *Life) Population() int {
	n := 0
	for _, c := range l.cur {
		n += int(c)
	}
	return n
}

// Reset restores the board it was seeded with.
func (l *Life) Reset() {
	copy(l.cur, l.initial)
	l.gen = 0
}

// Randomize fills the board with the given alive density and makes that the
// new reset snapshot.
func (l *Life) Randomize(rng *rand.Rand, density float64) {
	for i := range l.cur {
		l.cur[i] = 0
		if rng.Float64() < density {
			l.cur[i] = 1
		}
	}
	copy(l.initial, l.cur)
	l.gen = 0
}

// Step advances the board by one generation.
func (l *Life) Step() {
	w, h := l.w, l.h
	for y := 0; y < h; y++ {
		up, down := ((y-1+h)%h)*w, ((y+1)%h)*w
		row := y * w
		for x := 0; x < w; x++ {
			left, right := (x-1+w)%w, (x+1)%w
			n := l.cur[up+left] + l.cur[up+x] + l.cur[up+right] +
				l.cur[row+left] + l.cur[row+right] +
				l.cur[down+left] + l.cur[down+x] + l.cur[down+right]

			idx := row + x
			l.nxt[idx] = 0
			if n == 3 || (n == 2 && l.cur[idx] == 1) {
				l.nxt[idx] = 1
			}
		}
	}
	l.cur, l.nxt = l.nxt, l.cur
	l.gen++
}

func (l *Life) StepN(n int) {
	for it := 0; it < n; it++ {
		l.Step()
	}
}
