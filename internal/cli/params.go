package cli

import (
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

// paramFlags holds the generation flags shared by generate, tree and preview.
// Unset flags fall back to the config file.
type paramFlags struct {
	width       int
	height      int
	minRoom     int
	probability float64
	threshold   float64
	wall        int
	seed        uint64
}

func addParamFlags(cmd *cobra.Command, pf *paramFlags) {
	d := dungeon.DefaultParams()
	f := cmd.Flags()
	f.IntVarP(&pf.width, "width", "W", d.Width, "grid width in cells")
	f.IntVarP(&pf.height, "height", "H", d.Height, "grid height in cells")
	f.IntVar(&pf.minRoom, "min-room", d.MinRoomSize, "minimum partition side length")
	f.Float64Var(&pf.probability, "probability", d.SplitProbability, "probability of a vertical cut")
	f.Float64Var(&pf.threshold, "threshold", d.AspectThreshold, "aspect ratio that forces the cut orientation")
	f.IntVar(&pf.wall, "wall", d.WallThickness, "wall thickness between rooms")
	f.Uint64VarP(&pf.seed, "seed", "s", 0, "random seed (0 picks one)")
}

// baseOptions builds pipeline options from the config with changed flags applied on top.
func (c *CLI) baseOptions(cmd *cobra.Command, pf *paramFlags) pipeline.Options {
	r := c.Config.Render
	opts := pipeline.Options{
		Params:   c.Config.Generation,
		Seed:     c.Config.Seed,
		Formats:  append([]string(nil), r.Formats...),
		Style:    r.Style,
		CellSize: r.CellSize,
		Scale:    r.Scale,
		Glyphs:   r.Glyphs,
		Logger:   c.Logger,
	}

	f := cmd.Flags()
	ints := map[string]struct {
		dst *int
		val int
	}{
		"width":    {&opts.Params.Width, pf.width},
		"height":   {&opts.Params.Height, pf.height},
		"min-room": {&opts.Params.MinRoomSize, pf.minRoom},
		"wall":     {&opts.Params.WallThickness, pf.wall},
	}
	for name, p := range ints {
		if f.Changed(name) {
			*p.dst = p.val
		}
	}
	if f.Changed("probability") {
		opts.Params.SplitProbability = pf.probability
	}
	if f.Changed("threshold") {
		opts.Params.AspectThreshold = pf.threshold
	}
	if f.Changed("seed") {
		opts.Seed = pf.seed
	}
	if opts.Seed == 0 {
		opts.Seed = randomSeed()
	}
	return opts
}

// randomSeed returns a short non-zero seed that is easy to retype.
func randomSeed() uint64 {
	return uint64(rand.Uint32()) + 1
}
