// Package render turns generated dungeon maps into output artifacts.
//
// # Overview
//
// A [dungeon.Map] is a grid of wall and floor cells plus the rooms and
// corridors that carved it. This package is the renderer side of that
// contract: it reads the grid column-major (grid[x][y], wall = 1) and
// produces one of several formats:
//
//   - txt: the glyph grid, one line per row ([RenderText])
//   - svg: one square per cell ([RenderSVG])
//   - png, pdf: the SVG converted with rsvg-convert ([ToPNG], [ToPDF])
//   - json, yaml: a self-describing map document ([RenderJSON], [RenderYAML])
//
// [Render] dispatches on a [Format] and is what the pipeline and the HTTP
// API call.
//
// # Styles
//
// SVG output comes in two styles. [StylePlain] draws cells only.
// [StyleRooms] additionally outlines every room rectangle and traces the
// corridor paths, which makes the partition easier to read.
//
//	svg := render.RenderSVG(m, render.WithCellSize(12), render.WithStyle(render.StyleRooms))
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). They return an [errors.ErrCodeUnsupported] error when the
// tool is not installed.
//
// The [treeviz] subpackage renders the partition tree itself with Graphviz.
//
// [treeviz]: github.com/matzehuels/dungeonforge/pkg/render/treeviz
package render
