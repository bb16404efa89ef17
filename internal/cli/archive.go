package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/archive"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

// archiveCommand creates the archive management command.
func (c *CLI) archiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse and manage saved dungeons",
		Long: `Browse and manage dungeons saved with "generate --save".

The backend is chosen by [archive] in the config file: sqlite (default),
memory or mongo.`,
	}

	cmd.AddCommand(c.archiveListCommand())
	cmd.AddCommand(c.archiveShowCommand())
	cmd.AddCommand(c.archiveDeleteCommand())

	return cmd
}

func (c *CLI) archiveListCommand() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved dungeons, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(ctx, archive.ListOptions{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("Archive is empty")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), archiveTable(recs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultListLimit, "maximum number of entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many entries")
	return cmd
}

// archiveTable renders records as a bordered table.
func archiveTable(recs []archive.Record, now time.Time) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		name := r.Name
		if name == "" {
			name = "-"
		}
		rows[i] = []string{
			r.ID,
			name,
			fmt.Sprintf("%dx%d", r.Params.Width, r.Params.Height),
			strconv.FormatUint(r.Seed, 10),
			strconv.Itoa(r.Stats.Rooms),
			formatRelativeTime(r.CreatedAt, now),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorAsh).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorStone)).
		Headers("ID", "Name", "Size", "Seed", "Rooms", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorStone)
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorMoss)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (c *CLI) archiveShowCommand() *cobra.Command {
	var (
		formats string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a saved dungeon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			fs, err := normalizeFormats(parseFormats(formats))
			if err != nil {
				return err
			}
			r := c.Config.Render
			opts := pipeline.Options{
				Formats:  fs,
				Style:    r.Style,
				CellSize: r.CellSize,
				Scale:    r.Scale,
				Glyphs:   r.Glyphs,
				Logger:   c.Logger,
			}
			artifacts, err := pipeline.Render(ctx, rec.Map, opts)
			if err != nil {
				return err
			}

			if output == "" && len(fs) == 1 {
				return writeFile(stdoutPath, artifacts[fs[0]])
			}
			paths := outputPaths(output, "dungeon-"+rec.ID[:8], fs)
			for _, f := range fs {
				if err := writeFile(paths[f], artifacts[f]); err != nil {
					return err
				}
				printFile(paths[f])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "txt", "output format(s) (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or base path; stdout by default")
	return cmd
}

func (c *CLI) archiveDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete saved dungeons",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

// formatRelativeTime renders t relative to now for recent times and as a date otherwise.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
