package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// Format identifies an output artifact type. Its value doubles as the file extension.
type Format string

const (
	FormatText Format = "txt"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatText, FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatYAML}

// ParseFormat normalises s ("TXT", "yml", "text") into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "text", "ascii":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		if slices.Contains(Formats, f) {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", s, joinFormats())
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Binary reports whether f produces non-text bytes.
func (f Format) Binary() bool { return f == FormatPNG || f == FormatPDF }

// NeedsConverter reports whether f is produced through rsvg-convert.
func (f Format) NeedsConverter() bool { return f.Binary() }

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Style selects how SVG-based formats decorate the cell grid.
type Style string

const (
	StylePlain Style = "plain"
	StyleRooms Style = "rooms"
)

// ParseStyle validates a style name. The empty string selects [StylePlain].
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StylePlain, nil
	case StylePlain, StyleRooms:
		return st, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want plain or rooms)", s)
}
