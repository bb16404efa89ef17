package render

import (
	"context"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// Options selects and tunes an output format for [Render].
type Options struct {
	Format   Format
	Style    Style
	CellSize int
	Scale    float64
	// Wall and Floor override the text glyphs when non-zero.
	Wall, Floor rune
}

// Render produces the artifact for one format.
func Render(ctx context.Context, m *dungeon.Map, opts Options) ([]byte, error) {
	if m == nil || m.Grid == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "map has no grid")
	}
	svgOpts := []SVGOption{WithCellSize(opts.CellSize), WithStyle(opts.Style)}

	switch opts.Format {
	case FormatText, "":
		var textOpts []TextOption
		if opts.Wall != 0 && opts.Floor != 0 {
			textOpts = append(textOpts, WithGlyphs(opts.Wall, opts.Floor))
		}
		return RenderText(m.Grid, textOpts...), nil
	case FormatSVG:
		return RenderSVG(m, svgOpts...), nil
	case FormatPNG:
		scale := opts.Scale
		if scale <= 0 {
			scale = 2
		}
		return ToPNG(ctx, RenderSVG(m, svgOpts...), scale)
	case FormatPDF:
		return ToPDF(ctx, RenderSVG(m, svgOpts...))
	case FormatJSON:
		return RenderJSON(m)
	case FormatYAML:
		return RenderYAML(m)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", opts.Format)
}
