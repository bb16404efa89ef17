// Package pipeline provides the generate → render pipeline for dungeonforge.
//
// This package implements the complete pipeline used by the CLI and the HTTP
// API. By centralizing this logic, both entry points apply the same defaults,
// validation and caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: Partition the grid and carve rooms and corridors ([dungeon.Generate])
//  2. Render: Produce artifacts in the requested formats ([render.Render])
//
// A third, optional stage renders the partition tree itself ([Runner.Tree]).
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Params:  dungeon.Params{Width: 80, Height: 40},
//	    Seed:    7,
//	    Formats: []string{"txt", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	m, err := runner.Generate(ctx, opts)
//	artifacts, err := runner.Render(ctx, m, opts)
package pipeline

import (
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/cache"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = string(render.FormatText)

	// DefaultStyle is the default SVG style.
	DefaultStyle = string(render.StylePlain)

	// DefaultCellSize is the default SVG cell size.
	DefaultCellSize = render.DefaultCellSize

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generation options. Zero-valued params fields take the dungeon defaults.
	Params  dungeon.Params `json:"params"`
	Seed    uint64         `json:"seed,omitempty"`
	Refresh bool           `json:"refresh,omitempty"` // Bypass cached maps and artifacts

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	CellSize int      `json:"cell_size,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Glyphs   string   `json:"glyphs,omitempty"` // Two characters: wall then floor

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Map is the generated dungeon.
	Map *dungeon.Map

	// MapHash is the content hash of the map snapshot.
	MapHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	dungeon.Stats
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the map came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetGenerateDefaults fills unset generation fields. Params are defaulted only
// as a whole: a partially filled Params is left for validation.
func (o *Options) SetGenerateDefaults() {
	o.Params = o.Params.OrDefault()
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForGenerate sets generation defaults and validates the parameters.
func (o *Options) ValidateForGenerate() error {
	o.SetGenerateDefaults()
	return o.Params.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and normalises formats and style.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()

	formats, err := render.ParseFormats(o.Formats)
	if err != nil {
		return err
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	o.Formats = names

	style, err := render.ParseStyle(o.Style)
	if err != nil {
		return err
	}
	o.Style = string(style)

	if o.CellSize < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cell size must be positive, got %d", o.CellSize)
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.Glyphs != "" && utf8.RuneCountInString(o.Glyphs) != 2 {
		return errors.New(errors.ErrCodeInvalidInput, "glyphs must be two characters (wall, floor), got %q", o.Glyphs)
	}
	return nil
}

// renderOptions builds the render options for one format.
func (o *Options) renderOptions(format string) render.Options {
	ro := render.Options{
		Format:   render.Format(format),
		Style:    render.Style(o.Style),
		CellSize: o.CellSize,
		Scale:    o.Scale,
	}
	if glyphs := []rune(o.Glyphs); len(glyphs) == 2 {
		ro.Wall, ro.Floor = glyphs[0], glyphs[1]
	}
	return ro
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect a format are left out so they share entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch render.Format(format) {
	case render.FormatText:
		opts.Glyphs = o.Glyphs
	case render.FormatSVG, render.FormatPDF:
		opts.Style, opts.CellSize = o.Style, o.CellSize
	case render.FormatPNG:
		opts.Style, opts.CellSize, opts.Scale = o.Style, o.CellSize, o.Scale
	}
	return opts
}
