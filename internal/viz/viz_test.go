package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/rdsim/internal/field"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBlank|0x80 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Clear()
	if want := string([]rune{brailleBlank, brailleBlank}) + "\n"; c.String() != want {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestPlotField(t *testing.T) {
	g := field.NewGrid(4, 4, 0)
	g.Set(0, 0, 1)

	c := NewCanvas(2, 1)
	c.PlotField(g, 0.5)
	if c.Grid[0][0] == brailleBlank {
		t.Error("expected top-left dots lit")
	}
	if c.Grid[0][1] != brailleBlank {
		t.Error("expected right half blank")
	}
}

func TestPlotCells(t *testing.T) {
	cells := []uint8{1, 1, 1, 1}
	c := NewCanvas(1, 1)
	c.PlotCells(cells, 2, 2)
	if c.Grid[0][0] != brailleBlank|0xff {
		t.Errorf("expected full cell, got %U", c.Grid[0][0])
	}
}

func TestShade(t *testing.T) {
	g := field.NewGrid(2, 1, 0)
	g.Set(1, 0, 1)
	if got := Shade(g, 2, 1); got != " @\n" {
		t.Errorf("unexpected shade %q", got)
	}
	if Shade(nil, 2, 2) != "" {
		t.Error("expected empty output for nil grid")
	}
}

func TestHeatmapShape(t *testing.T) {
	g := field.NewGrid(10, 10, 0.5)
	out := Heatmap(g, 6, 3, ThemeBegin)
	if lines := strings.Count(out, "\n"); lines != 3 {
		t.Errorf("expected 3 lines, got %d", lines)
	}
	if strings.Count(out, "▀") != 18 {
		t.Errorf("expected 18 half blocks, got %d", strings.Count(out, "▀"))
	}
}

func TestThemeRamp(t *testing.T) {
	th := GetTheme("ocean")
	if th.Name != "ocean" {
		t.Fatalf("expected ocean theme, got %s", th.Name)
	}
	if got := th.Ramp(0); !strings.EqualFold(string(got), string(th.Background)) {
		t.Errorf("ramp(0) = %s, want %s", got, th.Background)
	}
	if got := th.Ramp(1); !strings.EqualFold(string(got), string(th.Accent)) {
		t.Errorf("ramp(1) = %s, want %s", got, th.Accent)
	}
	if GetTheme("nope").Name != ThemeBegin.Name {
		t.Error("expected fallback theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
