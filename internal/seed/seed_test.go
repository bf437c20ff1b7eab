package seed

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rdsim/internal/field"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// halfOpaque returns an image whose left half is opaque dark gray and right
// half fully transparent.
func halfOpaque(w, h int) *image.NRGBA {
	img := solid(w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func TestBuildMaskAlpha(t *testing.T) {
	m, err := BuildMask(halfOpaque(16, 8), 16, 8, DefaultOptions(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildMask: %v", err)
	}
	if m.Strategy != StrategyThreshold {
		t.Errorf("strategy = %s, want %s", m.Strategy, StrategyThreshold)
	}
	if m.AlphaCut < 60 || m.AlphaCut > 64 {
		t.Errorf("alpha cut = %v, want ~63", m.AlphaCut)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 6; x++ {
			if !m.IsActive(x, y) {
				t.Errorf("opaque cell (%d,%d) not active", x, y)
			}
		}
		for x := 10; x < 16; x++ {
			if m.IsActive(x, y) {
				t.Errorf("transparent cell (%d,%d) active", x, y)
			}
		}
	}
}

func TestBuildMaskFallbacks(t *testing.T) {
	brightness := DefaultOptions()
	brightness.Mode = ModeBrightness

	tests := []struct {
		name     string
		img      image.Image
		opts     Options
		strategy Strategy
		all      bool
	}{
		{"transparent alpha", solid(8, 8, color.NRGBA{}), DefaultOptions(), StrategyInverted, true},
		{"flat gray brightness", solid(8, 8, color.NRGBA{R: 120, G: 120, B: 120, A: 255}), brightness, StrategyInverted, true},
		{"transparent brightness", solid(8, 8, color.NRGBA{}), brightness, StrategyRandom, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildMask(tt.img, 8, 8, tt.opts, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Fatalf("BuildMask: %v", err)
			}
			if m.Strategy != tt.strategy {
				t.Errorf("strategy = %s, want %s", m.Strategy, tt.strategy)
			}
			if m.ActiveCount() == 0 {
				t.Fatal("mask has no active cells")
			}
			if tt.all && m.ActiveCount() != 64 {
				t.Errorf("active = %d, want 64", m.ActiveCount())
			}
		})
	}
}

func TestBuildMaskAccent(t *testing.T) {
	m, err := BuildMask(solid(6, 6, color.NRGBA{R: 220, G: 30, B: 30, A: 255}), 6, 6, DefaultOptions(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BuildMask: %v", err)
	}
	if m.AccentCount() != 36 {
		t.Errorf("accent = %d, want 36", m.AccentCount())
	}
}

func TestBuildMaskErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := BuildMask(nil, 4, 4, DefaultOptions(), rng); !errors.Is(err, ErrNoImage) {
		t.Errorf("nil image: err = %v, want ErrNoImage", err)
	}
	if _, err := BuildMask(solid(4, 4, color.NRGBA{A: 255}), 1, 4, DefaultOptions(), rng); !errors.Is(err, ErrBadGrid) {
		t.Errorf("1x4 grid: err = %v, want ErrBadGrid", err)
	}
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	if _, err := BuildMask(empty, 4, 4, DefaultOptions(), rng); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image: err = %v, want ErrEmptyImage", err)
	}
}

func TestPopulateRanges(t *testing.T) {
	m := &Mask{Cols: 3, Rows: 2, Cells: []Cell{Background, Active, Accent, Background, Active, Accent}}
	opts := DefaultOptions()
	in := Populate(m, opts, rand.New(rand.NewSource(3)))

	for i, c := range m.Cells {
		b, a := in.B.Data[i], in.A.Data[i]
		var lo, hi, dep float64
		switch c {
		case Background:
			lo, hi, dep = opts.BackgroundMin, opts.BackgroundMax, 0.5
		case Active:
			lo, hi, dep = opts.ActiveMin, opts.ActiveMax, 0.5
		case Accent:
			lo, hi, dep = 0.7, 1.0, 0.3
		}
		if b < lo || b > hi {
			t.Errorf("cell %d: B = %v outside [%v,%v]", i, b, lo, hi)
		}
		if want := 1 - b*dep; a != want {
			t.Errorf("cell %d: A = %v, want %v", i, a, want)
		}
	}

	feed := in.Feed.At(2, 0.036)
	if want := 0.036 * 0.8; feed != want {
		t.Errorf("accent feed = %v, want %v", feed, want)
	}
	if kill := in.Kill.At(0, 0.0); kill != 0.01 {
		t.Errorf("background kill floor = %v, want 0.01", kill)
	}

	opts.ParamMaps = false
	in = Populate(m, opts, rand.New(rand.NewSource(3)))
	if _, ok := in.Feed.(field.Uniform); !ok {
		t.Errorf("feed map = %T, want field.Uniform", in.Feed)
	}
}

func TestFileSeeder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, halfOpaque(32, 16)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := NewFileSeeder(path, DefaultOptions())
	in, err := s.Seed(16, 8, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !in.Fits(16, 8) {
		t.Error("seeded fields have wrong shape")
	}
	if s.Mask() == nil || s.Mask().ActiveCount() == 0 {
		t.Error("expected a mask with active cells")
	}

	missing := NewFileSeeder(filepath.Join(dir, "missing.png"), DefaultOptions())
	if _, err := missing.Seed(4, 4, rand.New(rand.NewSource(1))); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want ErrNotExist", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
	if err := CellularOptions().Validate(); err != nil {
		t.Errorf("cellular options invalid: %v", err)
	}

	bad := DefaultOptions()
	bad.ActiveMin, bad.ActiveMax = 0.8, 0.2
	if err := bad.Validate(); err == nil {
		t.Error("expected error for inverted active range")
	}

	bad = DefaultOptions()
	bad.Mode = "sepia"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
}
