package dungeon

import (
	"os"
	"strings"
	"testing"

	"github.com/matzehuels/dungeonforge/pkg/bsp"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// scriptedRand replays fixed draws and fails the test on any unexpected draw.
type scriptedRand struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	s.t.Helper()
	if len(s.floats) == 0 {
		s.t.Fatal("unexpected Float64 draw")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) IntN(n int) int {
	s.t.Helper()
	if len(s.ints) == 0 {
		s.t.Fatalf("unexpected IntN(%d) draw", n)
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 || v >= n {
		s.t.Fatalf("scripted IntN value %d out of range [0,%d)", v, n)
	}
	return v
}

// goldenRand drives the 20x20 scenario: a vertical root cut at x=10, both
// halves cut horizontally (at y=8 and y=11), then three corridors.
func goldenRand(t *testing.T) *scriptedRand {
	return &scriptedRand{
		t:      t,
		floats: []float64{0.3, 0.7, 0.9, 0.1},
		ints: []int{
			4, 2, 5, // cuts
			3, 2, 3, 0, // (4,3) -> (4,9)
			7, 1, 0, 4, // (8,10) -> (11,5)
			4, 8, 4, 0, // (15,9) -> (15,12)
		},
	}
}

func goldenParams() Params {
	return Params{
		Width:            20,
		Height:           20,
		MinRoomSize:      6,
		SplitProbability: 0.5,
		AspectThreshold:  1.25,
		WallThickness:    2,
	}
}

func TestGenerateGolden(t *testing.T) {
	rng := goldenRand(t)
	gen, err := New(goldenParams(), rng)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	root := gen.GenerateTree()

	if len(rng.floats) != 0 || len(rng.ints) != 0 {
		t.Errorf("draws left over: floats=%v ints=%v", rng.floats, rng.ints)
	}

	wantLeaves := []bsp.Rect{
		{X: 0, Y: 0, Width: 10, Height: 8},
		{X: 0, Y: 8, Width: 10, Height: 12},
		{X: 10, Y: 0, Width: 10, Height: 11},
		{X: 10, Y: 11, Width: 10, Height: 9},
	}
	leaves := root.Leaves()
	if len(leaves) != len(wantLeaves) {
		t.Fatalf("got %d leaves, want %d", len(leaves), len(wantLeaves))
	}
	for i, leaf := range leaves {
		if leaf.Region != wantLeaves[i] {
			t.Errorf("leaf %d = %v, want %v", i, leaf.Region, wantLeaves[i])
		}
	}
	if root.Horizontal || !root.Left.Horizontal || !root.Right.Horizontal {
		t.Error("unexpected cut orientations")
	}

	wantRooms := []bsp.Rect{
		{X: 1, Y: 1, Width: 8, Height: 6},
		{X: 1, Y: 9, Width: 8, Height: 10},
		{X: 11, Y: 1, Width: 8, Height: 9},
		{X: 11, Y: 12, Width: 8, Height: 7},
	}
	for i, room := range gen.Rooms() {
		if room != wantRooms[i] {
			t.Errorf("room %d = %v, want %v", i, room, wantRooms[i])
		}
	}

	golden, err := os.ReadFile("testdata/golden_20x20.txt")
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	want := strings.TrimRight(string(golden), "\n")
	if got := gen.Grid().String(); got != want {
		t.Errorf("grid mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateCorridorsAreLShaped(t *testing.T) {
	gen, err := New(goldenParams(), goldenRand(t))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	gen.Generate()

	corridors := gen.Corridors()
	if len(corridors) != 3 {
		t.Fatalf("got %d corridors, want 3", len(corridors))
	}
	want := []Corridor{
		{From: Point{4, 3}, To: Point{4, 9}},
		{From: Point{8, 10}, To: Point{11, 5}},
		{From: Point{15, 9}, To: Point{15, 12}},
	}
	for i, c := range corridors {
		if c.From != want[i].From || c.To != want[i].To {
			t.Errorf("corridor %d = %v->%v, want %v->%v", i, c.From, c.To, want[i].From, want[i].To)
		}
	}
	if got := len(corridors[1].Path); got != 9 {
		t.Errorf("corridor 1 path has %d cells, want 9", got)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	params := DefaultParams()
	a, err := New(params, bsp.NewRand(1234))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(params, bsp.NewRand(1234))
	if err != nil {
		t.Fatal(err)
	}
	a.Generate()
	b.Generate()
	if !a.Grid().Equal(b.Grid()) {
		t.Error("same seed produced different grids")
	}

	c, _ := New(params, bsp.NewRand(4321))
	c.Generate()
	if a.Grid().Equal(c.Grid()) {
		t.Error("different seeds produced identical grids")
	}
}

func TestGenerateGridInvariants(t *testing.T) {
	sizes := []struct{ w, h, min, wall int }{
		{20, 20, 6, 2},
		{50, 50, 6, 2},
		{80, 24, 4, 1},
		{13, 71, 3, 3},
		{100, 100, 1, 2},
	}
	for _, s := range sizes {
		for seed := uint64(1); seed <= 5; seed++ {
			params := DefaultParams()
			params.Width, params.Height, params.MinRoomSize, params.WallThickness = s.w, s.h, s.min, s.wall
			gen, err := New(params, bsp.NewRand(seed))
			if err != nil {
				t.Fatalf("New(%+v) error: %v", params, err)
			}
			gen.Generate()
			grid := gen.Grid()

			if grid.Width() != s.w || grid.Height() != s.h {
				t.Fatalf("grid is %dx%d, want %dx%d", grid.Width(), grid.Height(), s.w, s.h)
			}
			if grid.Count(Wall)+grid.Count(Floor) != s.w*s.h {
				t.Fatalf("%+v seed %d: cells outside {Wall, Floor}", params, seed)
			}
			for _, room := range gen.Rooms() {
				for x := room.X; x < room.Right(); x++ {
					for y := room.Y; y < room.Bottom(); y++ {
						if grid.At(x, y) != Floor {
							t.Fatalf("room %v cell (%d,%d) is not floor", room, x, y)
						}
					}
				}
			}
			for _, c := range gen.Corridors() {
				assertConnectedPath(t, grid, c)
			}
			if n := len(gen.Rooms()); n > 0 && len(gen.Corridors()) != n-1 {
				t.Fatalf("%d rooms but %d corridors", n, len(gen.Corridors()))
			}
		}
	}
}

func assertConnectedPath(t *testing.T, grid *Grid, c Corridor) {
	t.Helper()
	if len(c.Path) == 0 {
		t.Fatal("empty corridor path")
	}
	if c.Path[0] != c.From || c.Path[len(c.Path)-1] != c.To {
		t.Fatalf("path endpoints %v..%v, want %v..%v", c.Path[0], c.Path[len(c.Path)-1], c.From, c.To)
	}
	turned := false
	for i, p := range c.Path {
		if grid.At(p.X, p.Y) != Floor {
			t.Fatalf("corridor cell %v is not floor", p)
		}
		if i == 0 {
			continue
		}
		prev := c.Path[i-1]
		dx, dy := abs(p.X-prev.X), abs(p.Y-prev.Y)
		if dx+dy != 1 {
			t.Fatalf("corridor step %v -> %v is not a unit step", prev, p)
		}
		if dy == 1 {
			turned = true
		} else if turned {
			t.Fatalf("corridor moves horizontally after its vertical leg at %v", p)
		}
	}
}

func TestGenerateSingleRoom(t *testing.T) {
	params := goldenParams()
	params.MinRoomSize = 10

	gen, err := New(params, bsp.NewRand(5))
	if err != nil {
		t.Fatal(err)
	}
	gen.Generate()

	if got := len(gen.Rooms()); got != 1 {
		t.Fatalf("got %d rooms, want 1", got)
	}
	if got := len(gen.Corridors()); got != 0 {
		t.Errorf("got %d corridors, want 0", got)
	}
	want := bsp.Rect{X: 1, Y: 1, Width: 18, Height: 18}
	if gen.Rooms()[0] != want {
		t.Errorf("room = %v, want %v", gen.Rooms()[0], want)
	}
	if got := gen.Grid().Count(Floor); got != 18*18 {
		t.Errorf("floor cells = %d, want %d", got, 18*18)
	}
}

func TestGenerateResetsGrid(t *testing.T) {
	gen, err := New(DefaultParams(), bsp.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}
	gen.Generate()
	gen.Generate()
	second := gen.Snapshot()

	// Every floor cell of the second pass must come from its own rooms or corridors.
	covered := NewGrid(second.Grid.Width(), second.Grid.Height())
	for _, r := range second.Rooms {
		for x := r.X; x < r.Right(); x++ {
			for y := r.Y; y < r.Bottom(); y++ {
				covered.set(x, y, Floor)
			}
		}
	}
	for _, c := range second.Corridors {
		for _, p := range c.Path {
			covered.set(p.X, p.Y, Floor)
		}
	}
	if !covered.Equal(second.Grid) {
		t.Error("second generation kept floor cells from the first")
	}
}

func TestGenerateUndersizedLeavesSkipped(t *testing.T) {
	params := Params{
		Width:            40,
		Height:           3,
		MinRoomSize:      1,
		SplitProbability: 0.5,
		AspectThreshold:  1.25,
		WallThickness:    3,
	}
	gen, err := New(params, bsp.NewRand(11))
	if err != nil {
		t.Fatal(err)
	}
	gen.Generate()
	for _, room := range gen.Rooms() {
		if room.Empty() {
			t.Fatalf("empty room %v reported", room)
		}
	}
	if n := len(gen.Rooms()); n > 0 && len(gen.Corridors()) != n-1 {
		t.Errorf("%d rooms but %d corridors", n, len(gen.Corridors()))
	}
}

func TestNewInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero width", func(p *Params) { p.Width = 0 }},
		{"negative height", func(p *Params) { p.Height = -4 }},
		{"zero min room", func(p *Params) { p.MinRoomSize = 0 }},
		{"probability above one", func(p *Params) { p.SplitProbability = 1.5 }},
		{"negative probability", func(p *Params) { p.SplitProbability = -0.1 }},
		{"threshold of one", func(p *Params) { p.AspectThreshold = 1 }},
		{"zero wall", func(p *Params) { p.WallThickness = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.mutate(&params)
			gen, err := New(params, bsp.NewRand(1))
			if err == nil {
				t.Fatal("New() succeeded, want error")
			}
			if gen != nil {
				t.Error("New() returned a generator alongside an error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfiguration)
			}
		})
	}
}

func TestParamsOrDefault(t *testing.T) {
	if got := (Params{}).OrDefault(); got != DefaultParams() {
		t.Errorf("zero Params.OrDefault() = %+v, want defaults", got)
	}
	if got := (Params{}).OrDefault().SplitProbability; got != DefaultSplitProbability {
		t.Errorf("SplitProbability = %g, want %g", got, DefaultSplitProbability)
	}

	tests := []struct {
		name string
		p    Params
	}{
		{"zero width", func() Params { p := DefaultParams(); p.Width = 0; return p }()},
		{"zero height", func() Params { p := DefaultParams(); p.Height = 0; return p }()},
		{"zero min room", func() Params { p := DefaultParams(); p.MinRoomSize = 0; return p }()},
		{"zero wall", func() Params { p := DefaultParams(); p.WallThickness = 0; return p }()},
		{"zero threshold", func() Params { p := DefaultParams(); p.AspectThreshold = 0; return p }()},
		{"only width", Params{Width: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.OrDefault()
			if got != tt.p {
				t.Errorf("OrDefault() = %+v, want %+v unchanged", got, tt.p)
			}
			if !errors.Is(got.Validate(), errors.ErrCodeInvalidConfiguration) {
				t.Errorf("Validate() = %v, want %s", got.Validate(), errors.ErrCodeInvalidConfiguration)
			}
		})
	}
}

func TestGenerateConvenience(t *testing.T) {
	m, err := Generate(DefaultParams(), 42)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := Generate(DefaultParams(), 42)
	if !m.Grid.Equal(again.Grid) {
		t.Error("Generate is not deterministic for a fixed seed")
	}
	if m.Seed != 42 {
		t.Errorf("Seed = %d, want 42", m.Seed)
	}
	s := m.Stats()
	if s.Rooms != len(m.Rooms) || s.Corridors != len(m.Corridors) {
		t.Errorf("Stats() = %+v", s)
	}
	if s.FloorCells+s.WallCells != 50*50 {
		t.Errorf("cells = %d, want %d", s.FloorCells+s.WallCells, 50*50)
	}
	if s.FloorRatio <= 0 || s.FloorRatio >= 1 {
		t.Errorf("FloorRatio = %g", s.FloorRatio)
	}
}
