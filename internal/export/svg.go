package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/field"
	"github.com/san-kum/rdsim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`

// FieldToSVG renders g as one square per cell, coloured with the theme ramp.
// Cells that round to the background colour are skipped.
func FieldToSVG(g *field.Grid, cell int, theme viz.Theme) string {
	if g == nil || g.Cols == 0 || g.Rows == 0 {
		return ""
	}
	cell = max(1, cell)
	width, height := g.Cols*cell, g.Rows*cell
	bg := string(theme.Ramp(0))

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, bg)
	sb.WriteString(`<g shape-rendering="crispEdges">` + "\n")
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			fill := string(theme.Ramp(g.At(x, y)))
			if fill == bg {
				continue
			}
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
				x*cell, y*cell, cell, cell, fill)
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG draws every lit braille dot of canvas as a circle.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.Width) * scale * 2)
	height := int(float64(canvas.Height) * scale * 4)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, theme.Background)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Primary)

	dots := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	radius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dots[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, radius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PhaseToSVG draws the portrait as a single polyline with 10% padding on
// each axis.
func PhaseToSVG(p *analysis.PhasePortrait2D, width, height int, theme viz.Theme) string {
	if p == nil || len(p.Points) < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	minX, maxX = padRange(minX, maxX)
	minY, maxY = padRange(minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, theme.Background)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, theme.Accent)
	for i, pt := range p.Points {
		x := (pt.X - minX) / rangeX * float64(width)
		y := float64(height) - (pt.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
	fmt.Fprintf(&sb, `<text x="4" y="%d" fill="%s" font-size="10">%s vs %s</text>`+"\n",
		height-4, theme.Muted, p.YName, p.XName)
	sb.WriteString("</svg>")
	return sb.String()
}

func padRange(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*0.1, hi + r*0.1
}

func Write(w io.Writer, svg string) error {
	if svg == "" {
		return fmt.Errorf("nothing to export")
	}
	_, err := io.WriteString(w, svg)
	return err
}

func WriteFile(path, svg string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, svg)
}
