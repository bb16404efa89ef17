package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/archive"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
	"github.com/matzehuels/dungeonforge/pkg/render"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	params   paramFlags
	formats  string
	output   string
	style    string
	cellSize int
	scale    float64
	glyphs   string
	noCache  bool
	refresh  bool
	save     bool
	name     string
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dungeon and render it",
		Long: `Generate a dungeon by binary space partitioning and render it.

A single text output with no --output goes to stdout. Other formats are
written to files named after --output, or dungeon-<seed>.<format>.`,
		Example: `  dungeonforge generate -W 80 -H 40 --seed 7
  dungeonforge generate -f svg,png --style rooms -o maps/crypt
  dungeonforge generate --save --name crypt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	addParamFlags(cmd, &opts.params)
	f := cmd.Flags()
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): txt, svg, png, pdf, json, yaml (comma-separated)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	f.StringVar(&opts.style, "style", "", "SVG style: plain, rooms")
	f.IntVar(&opts.cellSize, "cell-size", 0, "SVG cell size")
	f.Float64Var(&opts.scale, "scale", 0, "PNG scale factor")
	f.StringVar(&opts.glyphs, "glyphs", "", `text glyphs for wall and floor, e.g. "#."`)
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	f.BoolVar(&opts.save, "save", false, "store the map in the archive")
	f.StringVar(&opts.name, "name", "", "archive name (with --save)")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()
	popts := c.baseOptions(cmd, &opts.params)
	applyRenderFlags(cmd, &popts, opts)

	formats, err := normalizeFormats(popts.Formats)
	if err != nil {
		return err
	}
	popts.Formats = formats

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	toStdout := opts.output == stdoutPath ||
		(opts.output == "" && len(formats) == 1 && formats[0] == string(render.FormatText))

	var spin *spinner
	if !toStdout {
		spin = newSpinner(ctx, os.Stderr, fmt.Sprintf("Generating %dx%d dungeon", popts.Params.Width, popts.Params.Height))
		spin.Start()
	}
	result, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
		c.Logger.Debug("pipeline finished", "elapsed", spin.Elapsed().Round(time.Millisecond))
	}
	if err != nil {
		return err
	}

	if toStdout {
		for _, f := range formats {
			if err := writeFile(stdoutPath, result.Artifacts[f]); err != nil {
				return err
			}
		}
	} else {
		printSuccess("Generated %dx%d dungeon (seed %d)", popts.Params.Width, popts.Params.Height, result.Map.Seed)
		printStats(result.Stats.Stats, result.CacheInfo.GenerateHit)
		paths := outputPaths(opts.output, fmt.Sprintf("dungeon-%d", result.Map.Seed), formats)
		for _, f := range formats {
			if err := writeFile(paths[f], result.Artifacts[f]); err != nil {
				return err
			}
			printFile(paths[f])
		}
	}

	if opts.save {
		return c.saveMap(ctx, opts.name, result)
	}
	return nil
}

func (c *CLI) saveMap(ctx context.Context, name string, result *pipeline.Result) error {
	store, err := c.openArchive(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := archive.NewRecord(name, result.Map)
	if err := store.Save(ctx, rec); err != nil {
		return err
	}
	loggerFromContext(ctx).Info("archived map", "id", rec.ID, "name", rec.Name)
	printSuccess("Saved to archive as %s", StyleHighlight.Render(rec.ID))
	return nil
}

// applyRenderFlags overrides configured render options with explicitly set flags.
func applyRenderFlags(cmd *cobra.Command, popts *pipeline.Options, opts *generateOpts) {
	f := cmd.Flags()
	if f.Changed("format") {
		popts.Formats = parseFormats(opts.formats)
	}
	if f.Changed("style") {
		popts.Style = opts.style
	}
	if f.Changed("cell-size") {
		popts.CellSize = opts.cellSize
	}
	if f.Changed("scale") {
		popts.Scale = opts.scale
	}
	if f.Changed("glyphs") {
		popts.Glyphs = opts.glyphs
	}
	popts.Refresh = opts.refresh
}

// normalizeFormats canonicalises format names, defaulting to text.
func normalizeFormats(names []string) ([]string, error) {
	formats, err := render.ParseFormats(names)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		return []string{pipeline.DefaultFormat}, nil
	}
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out, nil
}
