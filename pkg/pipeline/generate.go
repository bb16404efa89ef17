package pipeline

import (
	"github.com/matzehuels/dungeonforge/pkg/bsp"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

// Generate runs one generation for opts without caching.
func Generate(opts Options) (*dungeon.Map, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	return dungeon.Generate(opts.Params, opts.Seed)
}

// GenerateTree runs one generation and also returns its partition tree.
// The map is identical to the one [Generate] produces for the same options.
func GenerateTree(opts Options) (*dungeon.Map, *bsp.Node, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, nil, err
	}
	gen, err := dungeon.New(opts.Params, bsp.NewRand(opts.Seed))
	if err != nil {
		return nil, nil, err
	}
	root := gen.GenerateTree()
	m := gen.Snapshot()
	m.Seed = opts.Seed
	return m, root, nil
}
