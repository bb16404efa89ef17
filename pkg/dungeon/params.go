package dungeon

import (
	"github.com/matzehuels/dungeonforge/pkg/bsp"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// Default generation parameters.
const (
	DefaultWidth            = 50
	DefaultHeight           = 50
	DefaultMinRoomSize      = 6
	DefaultSplitProbability = 0.5
	DefaultAspectThreshold  = 1.25
	DefaultWallThickness    = 2
)

// Params holds the immutable configuration of a [Generator].
type Params struct {
	// Width and Height are the grid dimensions in cells.
	Width  int `json:"width" toml:"width" yaml:"width"`
	Height int `json:"height" toml:"height" yaml:"height"`

	// MinRoomSize is the smallest side length of a partition region before insetting.
	MinRoomSize int `json:"min_room_size" toml:"min_room_size" yaml:"min_room_size"`

	// SplitProbability is the probability of a vertical cut, in [0, 1].
	SplitProbability float64 `json:"split_probability" toml:"split_probability" yaml:"split_probability"`

	// AspectThreshold forces the cut orientation of regions at least this elongated. Must exceed 1.
	AspectThreshold float64 `json:"aspect_threshold" toml:"aspect_threshold" yaml:"aspect_threshold"`

	// WallThickness is subtracted from each leaf region to size its room.
	WallThickness int `json:"wall_thickness" toml:"wall_thickness" yaml:"wall_thickness"`
}

// DefaultParams returns a 50×50 grid with the standard split heuristics.
func DefaultParams() Params {
	return Params{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		MinRoomSize:      DefaultMinRoomSize,
		SplitProbability: DefaultSplitProbability,
		AspectThreshold:  DefaultAspectThreshold,
		WallThickness:    DefaultWallThickness,
	}
}

// IsZero reports whether p is the zero value, meaning no parameters were supplied.
func (p Params) IsZero() bool { return p == Params{} }

// OrDefault returns [DefaultParams] when p is the zero value and p unchanged
// otherwise. Individual zero fields are kept so Validate rejects them.
func (p Params) OrDefault() Params {
	if p.IsZero() {
		return DefaultParams()
	}
	return p
}

// Validate reports the first out-of-range parameter as an
// [errors.ErrCodeInvalidConfiguration] error.
func (p Params) Validate() error {
	switch {
	case p.Width <= 0:
		return invalid("width must be positive, got %d", p.Width)
	case p.Height <= 0:
		return invalid("height must be positive, got %d", p.Height)
	case p.MinRoomSize < 1:
		return invalid("min room size must be at least 1, got %d", p.MinRoomSize)
	case !(p.SplitProbability >= 0 && p.SplitProbability <= 1):
		return invalid("split probability must be in [0,1], got %g", p.SplitProbability)
	case !(p.AspectThreshold > 1):
		return invalid("aspect threshold must be greater than 1, got %g", p.AspectThreshold)
	case p.WallThickness < 1:
		return invalid("wall thickness must be at least 1, got %d", p.WallThickness)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfiguration, format, args...)
}

func (p Params) splitOptions() bsp.SplitOptions {
	return bsp.SplitOptions{
		MinSize:          p.MinRoomSize,
		SplitProbability: p.SplitProbability,
		AspectThreshold:  p.AspectThreshold,
	}
}
