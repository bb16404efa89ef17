package dungeon

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// Cell is the state of one grid cell. The numeric values match the tags
// consumed by existing tile renderers: 0 is floor, 1 is wall.
type Cell uint8

const (
	Floor Cell = 0
	Wall  Cell = 1
)

// Glyphs used by the row encoding.
const (
	WallGlyph  = '#'
	FloorGlyph = '.'
)

func (c Cell) String() string {
	switch c {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Glyph returns the single-character encoding used by [Grid.Rows].
func (c Cell) Glyph() byte {
	if c == Floor {
		return FloorGlyph
	}
	return WallGlyph
}

// Grid is a fixed-size 2D array of cells indexed [x][y].
type Grid struct {
	width, height int
	cells         [][]Cell
}

// NewGrid returns a width×height grid with every cell set to Wall.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, cells: make([][]Cell, width)}
	backing := make([]Cell, width*height)
	for x := range g.cells {
		g.cells[x] = backing[x*height : (x+1)*height : (x+1)*height]
	}
	g.Fill(Wall)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell of g.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y). Out-of-bounds coordinates read as Wall.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[x][y]
}

// set writes c at (x, y), ignoring out-of-bounds coordinates.
func (g *Grid) set(x, y int, c Cell) {
	if g.InBounds(x, y) {
		g.cells[x][y] = c
	}
}

// Fill sets every cell to c.
func (g *Grid) Fill(c Cell) {
	for x := range g.cells {
		for y := range g.cells[x] {
			g.cells[x][y] = c
		}
	}
}

// Columns returns a copy of the cells indexed [x][y].
func (g *Grid) Columns() [][]Cell {
	out := make([][]Cell, g.width)
	for x := range g.cells {
		out[x] = append([]Cell(nil), g.cells[x]...)
	}
	return out
}

// Rows returns one string per row (y = 0 first) using '#' for walls and '.' for floors.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	buf := make([]byte, g.width)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			buf[x] = g.cells[x][y].Glyph()
		}
		rows[y] = string(buf)
	}
	return rows
}

// String renders the grid as newline-separated rows.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// Count returns the number of cells equal to c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for x := range g.cells {
		for _, v := range g.cells[x] {
			if v == c {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.width, g.height)
	for x := range g.cells {
		copy(c.cells[x], g.cells[x])
	}
	return c
}

// Equal reports whether g and o have the same size and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for x := range g.cells {
		for y := range g.cells[x] {
			if g.cells[x][y] != o.cells[x][y] {
				return false
			}
		}
	}
	return true
}

// ParseRows builds a grid from the encoding produced by [Grid.Rows].
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid has no rows")
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has width %d, want %d", y, len(row), width)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case WallGlyph:
				g.cells[x][y] = Wall
			case FloorGlyph:
				g.cells[x][y] = Floor
			default:
				return nil, errors.New(errors.ErrCodeInvalidInput, "row %d col %d: unknown glyph %q", y, x, row[x])
			}
		}
	}
	return g, nil
}

type gridJSON struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
}

// MarshalJSON encodes the grid as its dimensions plus glyph rows.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(gridJSON{Width: g.width, Height: g.height, Rows: g.Rows()})
}

// UnmarshalJSON decodes the encoding produced by MarshalJSON.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var raw gridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRows(raw.Rows)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode grid")
	}
	if parsed.width != raw.Width || parsed.height != raw.Height {
		return errors.New(errors.ErrCodeInvalidInput, "decode grid: rows are %dx%d, header says %dx%d",
			parsed.width, parsed.height, raw.Width, raw.Height)
	}
	*g = *parsed
	return nil
}
