package reaction

import "fmt"

type Preset struct {
	Name string
	Params
}

var presets = []Preset{
	{"calm", Params{Da: 1.0, Db: 0.5, Feed: 0.036, Kill: 0.064}},
	{"spiral", Params{Da: 1.0, Db: 0.5, Feed: 0.018, Kill: 0.052}},
	{"worms", Params{Da: 1.0, Db: 0.5, Feed: 0.025, Kill: 0.060}},
	{"chaotic", Params{Da: 1.0, Db: 0.6, Feed: 0.030, Kill: 0.055}},
	{"explosive", Params{Da: 0.9, Db: 0.8, Feed: 0.020, Kill: 0.046}},
}

// Presets returns the presets in their fixed order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

func LookupPreset(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

func PresetAt(i int) (Preset, error) {
	if i < 0 || i >= len(presets) {
		return Preset{}, fmt.Errorf("%w: index %d (have %d)", ErrUnknownPreset, i, len(presets))
	}
	return presets[i], nil
}

func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}
