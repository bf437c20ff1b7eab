// Package seed derives initial concentrations from a raster image.
//
// An image is resampled to the grid, classified into a [Mask] using an
// adaptive alpha cutoff (and optionally a brightness threshold), and the mask
// is then populated with randomised concentrations and per-cell parameter
// maps. When the classification finds nothing the mask falls back to an
// inverted threshold and then to sparse random seeding, so a mask always has
// at least one active cell.
package seed

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"

	"golang.org/x/image/draw"
)

var (
	ErrNoImage    = errors.New("seed: no image")
	ErrEmptyImage = errors.New("seed: image has no pixels")
	ErrBadGrid    = errors.New("seed: grid dimensions must be at least 2x2")
)

type Mode string

const (
	// ModeAlpha marks every sufficiently opaque pixel as active.
	ModeAlpha Mode = "alpha"
	// ModeBrightness additionally requires the pixel to be darker than the
	// adaptive brightness threshold.
	ModeBrightness Mode = "brightness"
)

// Strategy records which rule produced the active cells of a mask.
type Strategy string

const (
	StrategyThreshold    Strategy = "threshold"
	StrategyInverted     Strategy = "inverted"
	StrategyRandomMasked Strategy = "random-masked"
	StrategyRandom       Strategy = "random"
)

type Cell uint8

const (
	Background Cell = iota
	Active
	Accent
)

// Mask is the per-cell classification of a resampled image.
type Mask struct {
	Cols, Rows int
	Cells      []Cell
	AlphaCut   float64
	Threshold  float64
	Strategy   Strategy
}

func (m *Mask) At(x, y int) Cell { return m.Cells[y*m.Cols+x] }

func (m *Mask) IsActive(x, y int) bool { return m.At(x, y) != Background }

func (m *Mask) ActiveCount() int {
	n := 0
	for _, c := range m.Cells {
		if c != Background {
			n++
		}
	}
	return n
}

func (m *Mask) AccentCount() int {
	n := 0
	for _, c := range m.Cells {
		if c == Accent {
			n++
		}
	}
	return n
}

// pixel is an 8-bit non-premultiplied sample.
type pixel struct{ r, g, b, a float64 }

func (p pixel) brightness() float64 { return (p.r + p.g + p.b) / 3 }

func (p pixel) reddish() bool {
	return (p.r > 130 && p.r > p.g*1.2 && p.r > p.b*1.2) || (p.r > 160 && p.g < 100)
}

// Resample scales img to cols x rows with bilinear filtering.
func Resample(img image.Image, cols, rows int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func samples(img *image.NRGBA) []pixel {
	b := img.Bounds()
	out := make([]pixel, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			out = append(out, pixel{float64(c.R), float64(c.G), float64(c.B), float64(c.A)})
		}
	}
	return out
}

// BuildMask classifies img resampled to cols x rows. rng is only used by the
// random fallbacks.
func BuildMask(img image.Image, cols, rows int, opts Options, rng *rand.Rand) (*Mask, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadGrid, cols, rows)
	}
	if img == nil {
		return nil, ErrNoImage
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	px := samples(Resample(img, cols, rows))

	var sumAlpha, sumBright float64
	for _, p := range px {
		sumAlpha += p.a
		sumBright += p.brightness()
	}
	n := float64(len(px))

	m := &Mask{
		Cols:      cols,
		Rows:      rows,
		Cells:     make([]Cell, len(px)),
		AlphaCut:  math.Max(opts.MinAlphaCut, math.Floor(sumAlpha/n*opts.AlphaFactor)),
		Threshold: sumBright / n * opts.BrightFactor,
		Strategy:  StrategyThreshold,
	}

	opaque := func(p pixel) bool { return p.a >= m.AlphaCut }

	primary := func(p pixel) bool {
		if opts.Mode == ModeBrightness {
			return opaque(p) && p.brightness() < m.Threshold
		}
		return opaque(p)
	}
	inverted := func(p pixel) bool {
		if opts.Mode == ModeBrightness {
			return opaque(p) && p.brightness() > m.Threshold
		}
		return !opaque(p)
	}

	if m.classify(px, primary) > 0 {
		return m, nil
	}
	m.Strategy = StrategyInverted
	if m.classify(px, inverted) > 0 {
		return m, nil
	}

	draws := max(1, int(math.Floor(n*opts.SparseFraction)))
	m.Strategy = StrategyRandomMasked
	if m.sprinkle(px, draws, rng, opaque) > 0 {
		return m, nil
	}
	m.Strategy = StrategyRandom
	m.sprinkle(px, draws, rng, func(pixel) bool { return true })
	return m, nil
}

func (m *Mask) classify(px []pixel, active func(pixel) bool) int {
	count := 0
	for i, p := range px {
		m.Cells[i] = Background
		if !active(p) {
			continue
		}
		m.Cells[i] = Active
		if p.reddish() {
			m.Cells[i] = Accent
		}
		count++
	}
	return count
}

func (m *Mask) sprinkle(px []pixel, draws int, rng *rand.Rand, allowed func(pixel) bool) int {
	count := 0
	for it := 0; it < draws; it++ {
		i := rng.Intn(len(px))
		if !allowed(px[i]) {
			continue
		}
		if m.Cells[i] == Background {
			count++
		}
		m.Cells[i] = Active
		if px[i].reddish() {
			m.Cells[i] = Accent
		}
	}
	return count
}
