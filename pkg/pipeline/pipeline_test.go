package pipeline

import (
	"testing"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.Params != dungeon.DefaultParams() {
		t.Errorf("Params = %+v, want defaults", opts.Params)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats should be [%s], got %v", DefaultFormat, opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.CellSize != DefaultCellSize || opts.Scale != DefaultScale {
		t.Errorf("CellSize/Scale = %d/%g", opts.CellSize, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsZeroFieldsAreRejected(t *testing.T) {
	fields := []struct {
		name string
		set  func(*dungeon.Params)
	}{
		{"width", func(p *dungeon.Params) { p.Width = 0 }},
		{"height", func(p *dungeon.Params) { p.Height = 0 }},
		{"min room", func(p *dungeon.Params) { p.MinRoomSize = 0 }},
		{"wall", func(p *dungeon.Params) { p.WallThickness = 0 }},
	}
	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			p := dungeon.DefaultParams()
			f.set(&p)
			opts := Options{Params: p}
			err := opts.ValidateForGenerate()
			if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
				t.Fatalf("ValidateForGenerate() = %v, want %s", err, errors.ErrCodeInvalidConfiguration)
			}
			if opts.Params != p {
				t.Errorf("Params rewritten to %+v", opts.Params)
			}
		})
	}
}

func TestOptionsPartialParams(t *testing.T) {
	opts := Options{Params: dungeon.Params{Width: 80, Height: 24}}
	if err := opts.ValidateForGenerate(); !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("ValidateForGenerate() = %v, want %s", err, errors.ErrCodeInvalidConfiguration)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative width", Options{Params: dungeon.Params{Width: -3}}, errors.ErrCodeInvalidConfiguration},
		{"threshold too low", Options{Params: dungeon.Params{AspectThreshold: 0.5}}, errors.ErrCodeInvalidConfiguration},
		{"unknown format", Options{Formats: []string{"txt", "gif"}}, errors.ErrCodeInvalidFormat},
		{"unknown style", Options{Style: "sketchy"}, errors.ErrCodeInvalidStyle},
		{"negative cell size", Options{CellSize: -1}, errors.ErrCodeInvalidInput},
		{"three glyphs", Options{Glyphs: "#.x"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsNormalizesFormats(t *testing.T) {
	formats := []string{"SVG", "text", "svg"}
	opts := Options{Formats: formats, Style: "ROOMS"}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != "svg" || opts.Formats[1] != "txt" {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Style != "rooms" {
		t.Errorf("Style = %q", opts.Style)
	}
	if formats[0] != "SVG" {
		t.Error("caller's format slice was modified")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Seed: 9}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.Params

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Params != first || opts.Seed != 9 {
		t.Error("options changed on second call")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "rooms", CellSize: 8, Scale: 3, Glyphs: "#."}

	txt := opts.ArtifactKeyOpts("txt")
	if txt.Style != "" || txt.CellSize != 0 || txt.Glyphs != "#." {
		t.Errorf("txt key opts = %+v", txt)
	}
	svg := opts.ArtifactKeyOpts("svg")
	if svg.Style != "rooms" || svg.CellSize != 8 || svg.Scale != 0 {
		t.Errorf("svg key opts = %+v", svg)
	}
	png := opts.ArtifactKeyOpts("png")
	if png.Scale != 3 {
		t.Errorf("png key opts = %+v", png)
	}
	if js := opts.ArtifactKeyOpts("json"); js.Style != "" || js.Glyphs != "" {
		t.Errorf("json key opts = %+v", js)
	}
}

func TestGenerateTreeMatchesGenerate(t *testing.T) {
	opts := Options{Seed: 77}
	m1, err := Generate(opts)
	if err != nil {
		t.Fatal(err)
	}
	m2, root, err := GenerateTree(opts)
	if err != nil {
		t.Fatal(err)
	}
	if !m1.Grid.Equal(m2.Grid) {
		t.Error("GenerateTree produced a different grid")
	}
	if root == nil || len(root.Leaves()) < len(m2.Rooms) {
		t.Error("tree has fewer leaves than rooms")
	}
	if m2.Seed != 77 {
		t.Errorf("Seed = %d", m2.Seed)
	}
}
