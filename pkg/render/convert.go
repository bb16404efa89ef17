package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// rsvgConvert is the librsvg command line tool used for raster and PDF output.
var rsvgConvert = "rsvg-convert"

const installHint = `install librsvg:
  macOS:  brew install librsvg
  Linux:  apt install librsvg2-bin`

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, FormatPDF)
}

// ToPNG converts an SVG document to PNG, zoomed by scale (1 when scale <= 0).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, FormatPNG, "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// ConverterAvailable reports whether rsvg-convert is on PATH.
func ConverterAvailable() bool {
	_, err := exec.LookPath(rsvgConvert)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format Format, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "%s output needs %s; %s", format, rsvgConvert, installHint)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", string(format)}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
