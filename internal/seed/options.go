package seed

import "fmt"

// Options tune mask classification and concentration seeding.
type Options struct {
	Mode           Mode    `yaml:"mode"`
	MinAlphaCut    float64 `yaml:"min_alpha_cut"`
	AlphaFactor    float64 `yaml:"alpha_factor"`
	BrightFactor   float64 `yaml:"bright_factor"`
	SparseFraction float64 `yaml:"sparse_fraction"`
	ActiveMin      float64 `yaml:"active_min"`
	ActiveMax      float64 `yaml:"active_max"`
	BackgroundMin  float64 `yaml:"background_min"`
	BackgroundMax  float64 `yaml:"background_max"`
	// ParamMaps enables per-cell feed/kill tuning of accent and background
	// cells. When false the global parameters apply everywhere.
	ParamMaps bool `yaml:"param_maps"`
}

func DefaultOptions() Options {
	return Options{
		Mode:           ModeAlpha,
		MinAlphaCut:    8,
		AlphaFactor:    0.5,
		BrightFactor:   0.95,
		SparseFraction: 0.01,
		ActiveMin:      0.3,
		ActiveMax:      0.7,
		BackgroundMin:  0.02,
		BackgroundMax:  0.12,
		ParamMaps:      true,
	}
}

// CellularOptions match the cellular automaton seeding: brightness mode with
// a cutoff of max(16, avgAlpha/4).
func CellularOptions() Options {
	o := DefaultOptions()
	o.Mode = ModeBrightness
	o.MinAlphaCut = 16
	o.AlphaFactor = 0.25
	return o
}

func (o Options) Validate() error {
	switch o.Mode {
	case ModeAlpha, ModeBrightness:
	default:
		return fmt.Errorf("seed: unknown mode %q", o.Mode)
	}
	if o.AlphaFactor < 0 || o.BrightFactor < 0 || o.MinAlphaCut < 0 {
		return fmt.Errorf("seed: cutoff factors must be non-negative")
	}
	if o.SparseFraction < 0 || o.SparseFraction > 1 {
		return fmt.Errorf("seed: sparse fraction %v outside [0,1]", o.SparseFraction)
	}
	if err := checkRange("active", o.ActiveMin, o.ActiveMax); err != nil {
		return err
	}
	return checkRange("background", o.BackgroundMin, o.BackgroundMax)
}

func checkRange(name string, lo, hi float64) error {
	if lo < 0 || hi > 1 || lo > hi {
		return fmt.Errorf("seed: %s range [%v,%v] must lie within [0,1] with min <= max", name, lo, hi)
	}
	return nil
}
