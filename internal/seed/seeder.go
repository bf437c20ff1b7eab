package seed

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"sync"

	"github.com/san-kum/rdsim/internal/field"
)

// ImageSeeder seeds grids of any size from one source image. It is safe for
// concurrent use.
type ImageSeeder struct {
	img  image.Image
	opts Options

	mu   sync.Mutex
	last *Mask
}

func NewImageSeeder(img image.Image, opts Options) *ImageSeeder {
	return &ImageSeeder{img: img, opts: opts}
}

func (s *ImageSeeder) Seed(cols, rows int, rng *rand.Rand) (*field.Initial, error) {
	m, err := BuildMask(s.img, cols, rows, s.opts, rng)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.last = m
	s.mu.Unlock()
	return Populate(m, s.opts, rng), nil
}

// Mask returns the mask built by the most recent successful Seed call.
func (s *ImageSeeder) Mask() *Mask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// FileSeeder decodes its image lazily on first use and keeps it for later
// reseeds. Decode failures are returned from every Seed call.
type FileSeeder struct {
	Path string
	Opts Options

	once sync.Once
	img  *ImageSeeder
	err  error
}

func NewFileSeeder(path string, opts Options) *FileSeeder {
	return &FileSeeder{Path: path, Opts: opts}
}

func (s *FileSeeder) Seed(cols, rows int, rng *rand.Rand) (*field.Initial, error) {
	s.once.Do(func() {
		img, err := Load(s.Path)
		if err != nil {
			s.err = err
			return
		}
		s.img = NewImageSeeder(img, s.Opts)
	})
	if s.err != nil {
		return nil, s.err
	}
	return s.img.Seed(cols, rows, rng)
}

// Mask returns the mask built by the most recent successful Seed call.
func (s *FileSeeder) Mask() *Mask {
	if s.img == nil {
		return nil
	}
	return s.img.Mask()
}

// Load decodes a PNG, JPEG or GIF file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("seed: decode %s: %w", path, err)
	}
	return img, nil
}
