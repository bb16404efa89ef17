package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

// DefaultCellSize is the side length of one cell in SVG user units.
const DefaultCellSize = 10

// Palette colours used by the SVG renderer.
const (
	colorWall     = "#2b2b33"
	colorFloor    = "#e9e4d4"
	colorRoom     = "#c0392b"
	colorCorridor = "#2980b9"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cellSize int
	style    Style
}

func WithCellSize(px int) SVGOption { return func(r *svgRenderer) { r.cellSize = px } }
func WithStyle(s Style) SVGOption   { return func(r *svgRenderer) { r.style = s } }

// RenderSVG draws the map as one square per cell. Walls are drawn as a single
// background rectangle and floors on top of it, so the output size grows with
// the floor area only.
func RenderSVG(m *dungeon.Map, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	g := m.Grid
	cs := r.cellSize
	w, h := g.Width()*cs, g.Height()*cs

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect class="wall" x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", w, h, colorWall)

	buf.WriteString(`  <g class="floor" fill="` + colorFloor + `">` + "\n")
	renderFloorRuns(&buf, g, cs)
	buf.WriteString("  </g>\n")

	if r.style == StyleRooms {
		renderRooms(&buf, m, cs)
		renderCorridors(&buf, m, cs)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{cellSize: DefaultCellSize, style: StylePlain}
	for _, opt := range opts {
		opt(&r)
	}
	if r.cellSize <= 0 {
		r.cellSize = DefaultCellSize
	}
	return r
}

// renderFloorRuns merges horizontally adjacent floor cells into one rect per run.
func renderFloorRuns(buf *bytes.Buffer, g *dungeon.Grid, cs int) {
	for y := 0; y < g.Height(); y++ {
		x := 0
		for x < g.Width() {
			if g.At(x, y) != dungeon.Floor {
				x++
				continue
			}
			start := x
			for x < g.Width() && g.At(x, y) == dungeon.Floor {
				x++
			}
			fmt.Fprintf(buf, `    <rect x="%d" y="%d" width="%d" height="%d"/>`+"\n",
				start*cs, y*cs, (x-start)*cs, cs)
		}
	}
}

func renderRooms(buf *bytes.Buffer, m *dungeon.Map, cs int) {
	fmt.Fprintf(buf, `  <g class="rooms" fill="none" stroke="%s" stroke-width="%.1f">`+"\n", colorRoom, float64(cs)/5)
	for i, room := range m.Rooms {
		fmt.Fprintf(buf, `    <rect id="room-%d" x="%d" y="%d" width="%d" height="%d"/>`+"\n",
			i, room.X*cs, room.Y*cs, room.Width*cs, room.Height*cs)
	}
	buf.WriteString("  </g>\n")
}

func renderCorridors(buf *bytes.Buffer, m *dungeon.Map, cs int) {
	if len(m.Corridors) == 0 {
		return
	}
	half := float64(cs) / 2
	fmt.Fprintf(buf, `  <g class="corridors" fill="none" stroke="%s" stroke-width="%.1f" stroke-dasharray="%.1f">`+"\n",
		colorCorridor, float64(cs)/5, half)
	for i, c := range m.Corridors {
		bend := dungeon.Point{X: c.To.X, Y: c.From.Y}
		fmt.Fprintf(buf, `    <polyline id="corridor-%d" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n", i,
			float64(c.From.X*cs)+half, float64(c.From.Y*cs)+half,
			float64(bend.X*cs)+half, float64(bend.Y*cs)+half,
			float64(c.To.X*cs)+half, float64(c.To.Y*cs)+half)
	}
	buf.WriteString("  </g>\n")
}
