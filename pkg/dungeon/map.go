package dungeon

import "github.com/matzehuels/dungeonforge/pkg/bsp"

// Map is a self-contained snapshot of one generation, suitable for caching,
// archiving and handing to renderers.
type Map struct {
	Params    Params     `json:"params" yaml:"params"`
	Seed      uint64     `json:"seed,omitempty" yaml:"seed,omitempty"`
	Grid      *Grid      `json:"grid" yaml:"-"`
	Rooms     []bsp.Rect `json:"rooms" yaml:"rooms"`
	Corridors []Corridor `json:"corridors" yaml:"corridors"`
}

// Snapshot copies the generator's current state into a Map.
func (g *Generator) Snapshot() *Map {
	return &Map{
		Params:    g.params,
		Grid:      g.grid.Clone(),
		Rooms:     append([]bsp.Rect(nil), g.rooms...),
		Corridors: append([]Corridor(nil), g.corridors...),
	}
}

// Stats summarises a generated map.
type Stats struct {
	Rooms      int     `json:"rooms" yaml:"rooms"`
	Corridors  int     `json:"corridors" yaml:"corridors"`
	FloorCells int     `json:"floor_cells" yaml:"floor_cells"`
	WallCells  int     `json:"wall_cells" yaml:"wall_cells"`
	FloorRatio float64 `json:"floor_ratio" yaml:"floor_ratio"`
}

// Stats counts rooms, corridors and cells of m.
func (m *Map) Stats() Stats {
	s := Stats{Rooms: len(m.Rooms), Corridors: len(m.Corridors)}
	if m.Grid == nil {
		return s
	}
	s.FloorCells = m.Grid.Count(Floor)
	s.WallCells = m.Grid.Count(Wall)
	if total := s.FloorCells + s.WallCells; total > 0 {
		s.FloorRatio = float64(s.FloorCells) / float64(total)
	}
	return s
}

// Generate is a convenience wrapper that validates params, runs one
// generation with a source seeded from seed and returns its snapshot.
func Generate(params Params, seed uint64) (*Map, error) {
	gen, err := New(params, bsp.NewRand(seed))
	if err != nil {
		return nil, err
	}
	gen.Generate()
	m := gen.Snapshot()
	m.Seed = seed
	return m, nil
}
