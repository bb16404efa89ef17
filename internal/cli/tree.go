package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

func (c *CLI) treeCommand() *cobra.Command {
	var (
		params   paramFlags
		format   string
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the partition tree behind a dungeon",
		Long: `Render the binary space partition tree that produced a dungeon as a
Graphviz diagram. Each node is a region; leaves carry the rooms.

The dot format is printed to stdout unless --output is given; diagrams are
written to tree-<seed>.<format>.`,
		Example: `  dungeonforge tree --seed 7 -f dot | dot -Tpng > tree.png
  dungeonforge tree --seed 7 --detailed -o tree.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.baseOptions(cmd, &params)
			topts := pipeline.TreeOptions{Format: format, Detailed: detailed}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st := startStage(c.Logger, "render partition tree")
			data, hit, err := runner.TreeWithCacheInfo(ctx, opts, topts)
			if err != nil {
				return err
			}
			st.done("seed", opts.Seed, "format", format, "cached", hit)

			ext := strings.ToLower(format)
			if ext == "" {
				ext = "svg"
			}
			if output == "" && ext == pipeline.TreeFormatDOT {
				return writeFile(stdoutPath, data)
			}
			path := output
			if path == "" {
				path = fmt.Sprintf("tree-%d.%s", opts.Seed, ext)
			}
			if err := writeFile(path, data); err != nil {
				return err
			}
			if path != stdoutPath {
				status := statusFresh
				if hit {
					status = statusCached
				}
				printSuccess("Rendered partition tree %s", StyleDim.Render("("+status+")"))
				printFile(path)
			}
			return nil
		},
	}

	addParamFlags(cmd, &params)
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "svg", "output format: dot, svg, png, pdf")
	f.StringVarP(&output, "output", "o", "", "output file; - for stdout")
	f.BoolVar(&detailed, "detailed", false, "label nodes with region, depth, cut and room")
	f.BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
