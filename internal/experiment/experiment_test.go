package experiment

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/metrics"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid = config.GridConfig{Cols: 24, Rows: 16}
	cfg.RNGSeed = 1
	cfg.Run = config.RunConfig{Steps: 25, SampleEvery: 10}
	return cfg
}

func TestRunSampling(t *testing.T) {
	sim, err := Build(smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	exp := New(sim, Config{Steps: 25, SampleEvery: 10})
	for _, m := range NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}
	var seen []int
	exp.AddObserver(ObserverFunc(func(s metrics.Sample) { seen = append(seen, s.Step) }))

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 10, 20, 25}
	if len(res.History) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(res.History))
	}
	for i, s := range res.History {
		if s.Step != want[i] || seen[i] != want[i] {
			t.Errorf("sample %d at step %d (observer %d), want %d", i, s.Step, seen[i], want[i])
		}
	}
	if res.Steps != 25 || sim.Steps() != 25 {
		t.Errorf("expected 25 steps, got %d/%d", res.Steps, sim.Steps())
	}
	if !res.Fallback {
		t.Error("expected fallback seeding without an image")
	}
	if res.Preset != "calm" {
		t.Errorf("expected preset calm, got %q", res.Preset)
	}
	for _, name := range NewRegistry().ListMetrics() {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if res.A == nil || res.B == nil || res.B.Len() != 24*16 {
		t.Error("expected final fields in result")
	}
}

func TestRunCancelled(t *testing.T) {
	sim, err := Build(smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(sim, Config{Steps: 100, SampleEvery: 1}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Steps != 0 || len(res.History) != 1 {
		t.Errorf("expected partial result with the initial sample, got %+v", res)
	}
}

func TestBuildWithImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 4; y < 12; y++ {
		for x := 4; x < 12; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := smallConfig()
	cfg.Seed.Image = path
	sim, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sim.FallbackSeeded() {
		t.Error("expected image seeding")
	}

	cfg.Seed.Image = filepath.Join(t.TempDir(), "missing.png")
	sim, err = Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !sim.FallbackSeeded() {
		t.Error("expected fallback for a missing image")
	}
}

func TestBuildInvalid(t *testing.T) {
	cfg := smallConfig()
	cfg.Boundary = "mirror"
	if _, err := Build(cfg, nil); err == nil {
		t.Error("expected error for unknown boundary")
	}
}

func TestRegistryUnknownMetric(t *testing.T) {
	if _, err := NewRegistry().GetMetric("entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
