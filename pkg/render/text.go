package render

import (
	"bytes"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

// TextOption configures text rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	wall, floor rune
	border      bool
}

// WithGlyphs replaces the default '#' and '.' glyphs.
func WithGlyphs(wall, floor rune) TextOption {
	return func(r *textRenderer) { r.wall, r.floor = wall, floor }
}

// WithBorder frames the grid with '+', '-' and '|' characters.
func WithBorder() TextOption { return func(r *textRenderer) { r.border = true } }

// RenderText writes the grid one row per line, y = 0 first, with a trailing newline.
func RenderText(g *dungeon.Grid, opts ...TextOption) []byte {
	r := textRenderer{wall: dungeon.WallGlyph, floor: dungeon.FloorGlyph}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	edge := func() {
		buf.WriteByte('+')
		for x := 0; x < g.Width(); x++ {
			buf.WriteByte('-')
		}
		buf.WriteString("+\n")
	}

	if r.border {
		edge()
	}
	for y := 0; y < g.Height(); y++ {
		if r.border {
			buf.WriteByte('|')
		}
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) == dungeon.Floor {
				buf.WriteRune(r.floor)
			} else {
				buf.WriteRune(r.wall)
			}
		}
		if r.border {
			buf.WriteByte('|')
		}
		buf.WriteByte('\n')
	}
	if r.border {
		edge()
	}
	return buf.Bytes()
}
