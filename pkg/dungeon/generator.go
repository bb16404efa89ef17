package dungeon

import (
	"time"

	"github.com/matzehuels/dungeonforge/pkg/bsp"
)

// Generator builds dungeon layouts into a grid it owns.
type Generator struct {
	params    Params
	rng       bsp.Rand
	grid      *Grid
	rooms     []bsp.Rect
	corridors []Corridor
}

// New validates params and returns a generator with an all-wall grid.
// A nil rng is replaced by a source seeded from the current time.
func New(params Params, rng bsp.Rand) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = bsp.NewRand(uint64(time.Now().UnixNano()))
	}
	return &Generator{
		params: params,
		rng:    rng,
		grid:   NewGrid(params.Width, params.Height),
	}, nil
}

// Params returns the generator's configuration.
func (g *Generator) Params() Params { return g.params }

// Grid returns the generated grid. The grid is replaced in place by the next
// Generate call; callers that keep it across generations should Clone it.
func (g *Generator) Grid() *Grid { return g.grid }

// Rooms returns the non-empty room rectangles of the last generation in connection order.
func (g *Generator) Rooms() []bsp.Rect { return g.rooms }

// Corridors returns the corridors carved by the last generation.
func (g *Generator) Corridors() []Corridor { return g.corridors }

// Generate produces a fresh layout, discarding the partition tree.
func (g *Generator) Generate() {
	g.generate()
}

// GenerateTree produces a fresh layout like Generate and hands the partition
// tree, with rooms filled in, to the caller. The generator keeps no reference to it.
func (g *Generator) GenerateTree() *bsp.Node {
	return g.generate()
}

func (g *Generator) generate() *bsp.Node {
	g.grid.Fill(Wall)

	root := bsp.Build(bsp.Rect{Width: g.params.Width, Height: g.params.Height}, g.rng, g.params.splitOptions())

	g.rooms = nil
	for _, leaf := range root.CollectRooms(g.params.WallThickness) {
		if leaf.Room.Empty() {
			continue
		}
		g.fillRoom(leaf.Room)
		g.rooms = append(g.rooms, leaf.Room)
	}

	g.connectRooms()
	return root
}

func (g *Generator) fillRoom(room bsp.Rect) {
	for x := room.X; x < room.Right(); x++ {
		for y := room.Y; y < room.Bottom(); y++ {
			g.grid.set(x, y, Floor)
		}
	}
}

func (g *Generator) connectRooms() {
	g.corridors = nil
	for i := 1; i < len(g.rooms); i++ {
		a := randomPoint(g.rng, g.rooms[i-1])
		b := randomPoint(g.rng, g.rooms[i])
		g.corridors = append(g.corridors, g.carve(a, b))
	}
}

func (g *Generator) carve(a, b Point) Corridor {
	path := lPath(a, b)
	for _, p := range path {
		g.grid.set(p.X, p.Y, Floor)
	}
	return Corridor{From: a, To: b, Path: path}
}
