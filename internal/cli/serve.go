package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/internal/server"
	"github.com/matzehuels/dungeonforge/pkg/archive"
	"github.com/matzehuels/dungeonforge/pkg/observability"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noArchive bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve the HTTP API:

  GET    /healthz
  GET    /v1/generate?width=&height=&min_room=&probability=&threshold=&wall=&seed=&format=&style=
  GET    /v1/tree?...&format=svg|dot|png|pdf&detailed=1
  GET    /v1/stats
  GET    /v1/maps            list archived maps
  POST   /v1/maps            generate and archive {"name", "params", "seed"}
  GET    /v1/maps/{id}       fetch (add ?format= to render)
  DELETE /v1/maps/{id}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			counters := observability.NewCounters()
			hooks := observability.Multi{counters, logHooks{c.Logger}}
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(counters)
			observability.SetHTTPHooks(counters)
			defer observability.Reset()

			r := c.Config.Render
			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithCounters(counters),
				server.WithDefaults(pipeline.Options{
					Params:   c.Config.Generation,
					Seed:     c.Config.Seed,
					Formats:  r.Formats,
					Style:    r.Style,
					CellSize: r.CellSize,
					Scale:    r.Scale,
					Glyphs:   r.Glyphs,
				}),
			}
			if !noArchive {
				var store archive.Store
				store, err = c.openArchive(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, server.WithArchive(store))
			}

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printDetail("cache: %s · archive: %s", c.Config.Cache.Backend, archiveLabel(c.Config.Archive.Backend, noArchive))
			return server.New(runner, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "disable the /v1/maps endpoints")

	return cmd
}

func archiveLabel(backend string, disabled bool) string {
	if disabled {
		return "disabled"
	}
	return backend
}
