package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/reaction"
	"github.com/san-kum/rdsim/internal/seed"
)

const (
	DefaultCols        = 200
	DefaultRows        = 100
	DefaultSteps       = 2000
	DefaultSampleEvery = 10
)

type Config struct {
	// Preset, when set, replaces the four rates in Params.
	Preset       string        `yaml:"preset,omitempty"`
	Grid         GridConfig    `yaml:"grid"`
	Params       ParamsConfig  `yaml:"params"`
	StepsPerTick int           `yaml:"steps_per_tick"`
	Boundary     string        `yaml:"boundary"`
	Perturb      PerturbConfig `yaml:"perturb"`
	Seed         SeedConfig    `yaml:"seed"`
	RNGSeed      int64         `yaml:"rng_seed"`
	Workers      int           `yaml:"workers"`
	Run          RunConfig     `yaml:"run"`
}

type GridConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

type ParamsConfig struct {
	Da   float64 `yaml:"da"`
	Db   float64 `yaml:"db"`
	Feed float64 `yaml:"feed"`
	Kill float64 `yaml:"kill"`
	Dt   float64 `yaml:"dt"`
}

type PerturbConfig struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

type SeedConfig struct {
	// Image is a PNG, JPEG or GIF path. Empty means uniform seeding.
	Image        string  `yaml:"image"`
	FallbackB    float64 `yaml:"fallback_b"`
	seed.Options `yaml:",inline"`
}

type RunConfig struct {
	Steps       int `yaml:"steps"`
	SampleEvery int `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	sim := reaction.DefaultConfig()
	return &Config{
		Preset: "calm",
		Grid:   GridConfig{Cols: DefaultCols, Rows: DefaultRows},
		Params: ParamsConfig{
			Da:   sim.Params.Da,
			Db:   sim.Params.Db,
			Feed: sim.Params.Feed,
			Kill: sim.Params.Kill,
			Dt:   sim.Dt,
		},
		StepsPerTick: sim.StepsPerTick,
		Boundary:     sim.Boundary.String(),
		Perturb: PerturbConfig{
			Enabled: sim.Perturb.Enabled,
			Rate:    sim.Perturb.Rate,
			Min:     sim.Perturb.Min,
			Max:     sim.Perturb.Max,
		},
		Seed: SeedConfig{
			FallbackB: sim.FallbackB,
			Options:   seed.DefaultOptions(),
		},
		Run: RunConfig{Steps: DefaultSteps, SampleEvery: DefaultSampleEvery},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig converts the file layout into a validated simulator config.
func (c *Config) SimConfig() (reaction.Config, error) {
	boundary, err := reaction.ParseBoundary(c.Boundary)
	if err != nil {
		return reaction.Config{}, err
	}

	params := reaction.Params{Da: c.Params.Da, Db: c.Params.Db, Feed: c.Params.Feed, Kill: c.Params.Kill}
	if c.Preset != "" {
		p, err := reaction.LookupPreset(c.Preset)
		if err != nil {
			return reaction.Config{}, err
		}
		params = p.Params
	}

	rc := reaction.Config{
		Cols:         c.Grid.Cols,
		Rows:         c.Grid.Rows,
		Params:       params,
		Dt:           c.Params.Dt,
		StepsPerTick: c.StepsPerTick,
		Boundary:     boundary,
		Perturb: reaction.Perturbation{
			Enabled: c.Perturb.Enabled,
			Rate:    c.Perturb.Rate,
			Min:     c.Perturb.Min,
			Max:     c.Perturb.Max,
		},
		FallbackB: c.Seed.FallbackB,
		Seed:      c.RNGSeed,
		Workers:   c.Workers,
	}
	if err := rc.Validate(); err != nil {
		return reaction.Config{}, err
	}
	return rc, nil
}

func (c *Config) SeedOptions() seed.Options {
	return c.Seed.Options
}

func (c *Config) Validate() error {
	if _, err := c.SimConfig(); err != nil {
		return err
	}
	if err := c.Seed.Options.Validate(); err != nil {
		return err
	}
	if c.Run.Steps < 0 {
		return fmt.Errorf("%w: run steps must be non-negative, got %d", reaction.ErrParameterBounds, c.Run.Steps)
	}
	if c.Run.SampleEvery < 1 {
		return fmt.Errorf("%w: sample_every must be at least 1, got %d", reaction.ErrParameterBounds, c.Run.SampleEvery)
	}
	return nil
}
