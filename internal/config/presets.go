package config

import (
	"sort"

	"github.com/san-kum/rdsim/internal/seed"
)

// Profiles are complete starting configurations for `config init`.
var Profiles = map[string]func() *Config{
	"default": DefaultConfig,
	"torus": func() *Config {
		c := DefaultConfig()
		c.Boundary = "toroidal"
		c.Preset = "worms"
		return c
	},
	"cellular": func() *Config {
		c := DefaultConfig()
		c.Seed.Options = seed.CellularOptions()
		return c
	},
	"banner": func() *Config {
		c := DefaultConfig()
		c.Grid = GridConfig{Cols: 320, Rows: 80}
		c.Preset = "spiral"
		c.StepsPerTick = 4
		c.Workers = 4
		return c
	},
	"quiet": func() *Config {
		c := DefaultConfig()
		c.Perturb.Enabled = false
		c.Preset = ""
		return c
	},
}

func GetProfile(name string) *Config {
	if fn, ok := Profiles[name]; ok {
		return fn()
	}
	return nil
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
