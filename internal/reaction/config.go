package reaction

import (
	"fmt"
	"strings"
)

// Boundary selects how border cells are treated.
type Boundary int

const (
	// Clamped holds border cells at their previous value.
	Clamped Boundary = iota
	// Toroidal integrates every cell with wrapped neighbours.
	Toroidal
)

func (b Boundary) String() string {
	switch b {
	case Clamped:
		return "clamped"
	case Toroidal:
		return "toroidal"
	}
	return fmt.Sprintf("boundary(%d)", int(b))
}

func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamped", "fixed":
		return Clamped, nil
	case "toroidal", "wrap", "torus":
		return Toroidal, nil
	}
	return Clamped, fmt.Errorf("%w: %q", ErrUnknownBoundary, s)
}

// Params are the four Gray-Scott rates a preset replaces.
type Params struct {
	Da   float64
	Db   float64
	Feed float64
	Kill float64
}

func (p Params) validate() error {
	if p.Da < 0 || p.Db < 0 {
		return fmt.Errorf("%w: diffusion rates must be non-negative (da=%v db=%v)", ErrParameterBounds, p.Da, p.Db)
	}
	if p.Feed < 0 || p.Kill < 0 {
		return fmt.Errorf("%w: feed and kill must be non-negative (feed=%v kill=%v)", ErrParameterBounds, p.Feed, p.Kill)
	}
	return nil
}

// Perturbation is the stochastic forcing applied after each step.
type Perturbation struct {
	Enabled bool
	// Rate is the number of attempts per cell per step, in [0,1]. Any
	// positive rate makes at least one attempt; zero makes none.
	Rate float64
	Min  float64
	Max  float64
}

type Config struct {
	Cols, Rows   int
	Params       Params
	Dt           float64
	StepsPerTick int
	Boundary     Boundary
	Perturb      Perturbation
	// FallbackB is the uniform B concentration used when seeding fails.
	FallbackB float64
	Seed      int64
	// Workers > 1 splits each step across goroutines by rows.
	Workers int
}

func DefaultConfig() Config {
	p, _ := LookupPreset("calm")
	return Config{
		Cols:         200,
		Rows:         100,
		Params:       p.Params,
		Dt:           1.0,
		StepsPerTick: 1,
		Boundary:     Clamped,
		Perturb: Perturbation{
			Enabled: true,
			Rate:    0.0006,
			Min:     0.05,
			Max:     0.4,
		},
		FallbackB: 0.05,
	}
}

func (c Config) Validate() error {
	if err := validateSize(c.Cols, c.Rows); err != nil {
		return err
	}
	if err := c.Params.validate(); err != nil {
		return err
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrParameterBounds, c.Dt)
	}
	if c.StepsPerTick < 1 {
		return fmt.Errorf("%w: steps per tick must be at least 1, got %d", ErrParameterBounds, c.StepsPerTick)
	}
	if c.Boundary != Clamped && c.Boundary != Toroidal {
		return fmt.Errorf("%w: %d", ErrUnknownBoundary, int(c.Boundary))
	}
	if c.FallbackB < 0 || c.FallbackB > 1 {
		return fmt.Errorf("%w: fallback B %v outside [0,1]", ErrParameterBounds, c.FallbackB)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrParameterBounds, c.Workers)
	}
	p := c.Perturb
	if p.Rate < 0 || p.Rate > 1 || p.Min < 0 || p.Max > 1 || p.Min > p.Max {
		return fmt.Errorf("%w: perturbation rate=%v range=[%v,%v]", ErrParameterBounds, p.Rate, p.Min, p.Max)
	}
	return nil
}

func validateSize(cols, rows int) error {
	if cols < 2 || rows < 2 {
		return fmt.Errorf("%w: got %dx%d", ErrDegenerateGrid, cols, rows)
	}
	return nil
}
