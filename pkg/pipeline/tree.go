package pipeline

import (
	"context"
	"strings"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/render"
	"github.com/matzehuels/dungeonforge/pkg/render/treeviz"
)

// TreeFormatDOT emits the Graphviz source instead of a rendered diagram.
const TreeFormatDOT = "dot"

// TreeOptions configures partition tree rendering.
type TreeOptions struct {
	Format   string // dot, svg, png or pdf
	Detailed bool
}

func (t *TreeOptions) validate() error {
	t.Format = strings.ToLower(t.Format)
	switch t.Format {
	case "":
		t.Format = string(render.FormatSVG)
	case TreeFormatDOT, string(render.FormatSVG), string(render.FormatPNG), string(render.FormatPDF):
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format %q (want dot, svg, png or pdf)", t.Format)
	}
	return nil
}

// RenderTree generates the map for opts and renders its partition tree.
func RenderTree(ctx context.Context, opts Options, topts TreeOptions) ([]byte, error) {
	if err := topts.validate(); err != nil {
		return nil, err
	}
	_, root, err := GenerateTree(opts)
	if err != nil {
		return nil, err
	}

	dot := treeviz.ToDOT(root, treeviz.Options{Detailed: topts.Detailed})
	if topts.Format == TreeFormatDOT {
		return []byte(dot), nil
	}

	svg, err := treeviz.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch render.Format(topts.Format) {
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, DefaultScale)
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}
