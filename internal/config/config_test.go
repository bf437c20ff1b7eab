package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rdsim/internal/reaction"
	"github.com/san-kum/rdsim/internal/seed"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Grid.Cols != 200 || cfg.Grid.Rows != 100 {
		t.Errorf("expected 200x100 grid, got %dx%d", cfg.Grid.Cols, cfg.Grid.Rows)
	}
	if cfg.Params.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSimConfigPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = "spiral"
	cfg.Params.Feed = 0.5

	rc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if rc.Params.Feed != 0.018 || rc.Params.Kill != 0.052 {
		t.Errorf("preset not applied: %+v", rc.Params)
	}

	cfg.Preset = ""
	rc, err = cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if rc.Params.Feed != 0.5 {
		t.Errorf("expected custom feed 0.5, got %f", rc.Params.Feed)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want error
	}{
		{"bad boundary", func(c *Config) { c.Boundary = "mirror" }, reaction.ErrUnknownBoundary},
		{"bad preset", func(c *Config) { c.Preset = "lava" }, reaction.ErrUnknownPreset},
		{"thin grid", func(c *Config) { c.Grid.Rows = 1 }, reaction.ErrDegenerateGrid},
		{"zero sample", func(c *Config) { c.Run.SampleEvery = 0 }, reaction.ErrParameterBounds},
		{"negative steps", func(c *Config) { c.Run.Steps = -1 }, reaction.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Seed.Mode = "sepia"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown seed mode")
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdsim.yaml")
	data := []byte(`
preset: worms
grid:
  cols: 64
  rows: 48
boundary: toroidal
seed:
  image: logo.png
  mode: brightness
  param_maps: false
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Cols != 64 || cfg.Grid.Rows != 48 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.Seed.Image != "logo.png" || cfg.Seed.Mode != seed.ModeBrightness || cfg.Seed.ParamMaps {
		t.Errorf("seed = %+v", cfg.Seed)
	}
	if cfg.Run.Steps != DefaultSteps {
		t.Errorf("expected default run steps, got %d", cfg.Run.Steps)
	}
	if cfg.Seed.ActiveMin != 0.3 {
		t.Errorf("expected default active min, got %f", cfg.Seed.ActiveMin)
	}

	rc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if rc.Boundary != reaction.Toroidal {
		t.Errorf("boundary = %v", rc.Boundary)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetProfile("banner")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestProfiles(t *testing.T) {
	for _, name := range ListProfiles() {
		cfg := GetProfile(name)
		if cfg == nil {
			t.Fatalf("profile %s missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("profile %s invalid: %v", name, err)
		}
	}
	if GetProfile("nonexistent") != nil {
		t.Error("expected nil for nonexistent profile")
	}
}
