// Package pkg provides the core libraries for Dungeonforge dungeon generation.
//
// # Overview
//
// Dungeonforge carves rooms and corridors into a tile grid by binary space
// partitioning: the grid is cut recursively into regions, each leaf region
// receives a room, and sibling subtrees are joined by L-shaped corridors.
//
// # Architecture
//
// The typical data flow:
//
//	Params + seed
//	     ↓
//	[bsp] package (partition tree)
//	     ↓
//	[dungeon] package (rooms, corridors, grid)
//	     ↓
//	[render] package (txt, svg, png, pdf, json, yaml)
//
// [pipeline] ties these together behind a cache and is shared by the CLI and
// the HTTP API.
//
// # Quick Start
//
//	m, err := dungeon.Generate(dungeon.DefaultParams(), 42)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(string(render.RenderText(m.Grid)))
//
// # Main Packages
//
// [bsp] - Rectangles, the partition tree and the seeded random source.
//
// [dungeon] - Generation parameters, the cell grid and the generator that
// turns a partition tree into a map.
//
// [render] - Output formats. PNG and PDF go through rsvg-convert.
//
// [render/treeviz] - Graphviz rendering of the partition tree.
//
// [pipeline] - Option validation and cached generate-then-render runs.
//
// [cache] - File, Redis and no-op caches plus key derivation.
//
// [archive] - Saved maps in SQLite, MongoDB or memory.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for request, pipeline and cache events.
//
// [errors] - Coded errors shared by the CLI and the API.
//
// [bsp]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/bsp
// [dungeon]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/dungeon
// [render]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/render
// [render/treeviz]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/render/treeviz
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/archive
// [config]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/errors
package pkg
