package seed

import (
	"math/rand"

	"github.com/san-kum/rdsim/internal/field"
)

// Per-class tuning of the seeded concentrations and parameter maps.
type classTuning struct {
	bMin, bMax float64
	aDepletion float64
	feedFactor float64
	feedFloor  float64
	killFactor float64
	killFloor  float64
}

var accentTuning = classTuning{
	bMin: 0.7, bMax: 1.0, aDepletion: 0.3,
	feedFactor: 0.8, feedFloor: 0.005,
	killFactor: 0.9, killFloor: 0.02,
}

// Populate turns a mask into initial concentrations. Accent cells get a strong
// B seed and a more persistent regime, active cells a medium seed, and
// background cells a faint seed with a slightly more receptive regime.
func Populate(m *Mask, opts Options, rng *rand.Rand) *field.Initial {
	in := &field.Initial{
		A:    field.NewGrid(m.Cols, m.Rows, 1),
		B:    field.NewGrid(m.Cols, m.Rows, 0),
		Feed: field.Uniform{},
		Kill: field.Uniform{},
	}

	active := classTuning{
		bMin: opts.ActiveMin, bMax: opts.ActiveMax, aDepletion: 0.5,
		feedFactor: 1, killFactor: 1,
	}
	background := classTuning{
		bMin: opts.BackgroundMin, bMax: opts.BackgroundMax, aDepletion: 0.5,
		feedFactor: 1.05, killFactor: 0.95, killFloor: 0.01,
	}

	feed := field.NewScaled(len(m.Cells))
	kill := field.NewScaled(len(m.Cells))

	for i, c := range m.Cells {
		t := background
		switch c {
		case Accent:
			t = accentTuning
		case Active:
			t = active
		}
		b := t.bMin + rng.Float64()*(t.bMax-t.bMin)
		in.B.Data[i] = b
		in.A.Data[i] = 1 - b*t.aDepletion
		feed.Factor[i], feed.Floor[i] = t.feedFactor, t.feedFloor
		kill.Factor[i], kill.Floor[i] = t.killFactor, t.killFloor
	}

	if opts.ParamMaps {
		in.Feed, in.Kill = feed, kill
	}
	return in
}
