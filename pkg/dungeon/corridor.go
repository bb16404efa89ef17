package dungeon

import "github.com/matzehuels/dungeonforge/pkg/bsp"

// Point is a cell coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Corridor is an L-shaped run of floor cells between two room points.
// Path walks horizontally along From.Y, then vertically along To.X, and
// includes both endpoints.
type Corridor struct {
	From Point   `json:"from" yaml:"from"`
	To   Point   `json:"to" yaml:"to"`
	Path []Point `json:"path,omitempty" yaml:"path,omitempty"`
}

// lPath returns the cells visited walking from a to b one step at a time,
// first along x then along y.
func lPath(a, b Point) []Point {
	path := make([]Point, 0, abs(b.X-a.X)+abs(b.Y-a.Y)+1)
	x, y := a.X, a.Y
	for x != b.X {
		path = append(path, Point{x, y})
		x += step(x, b.X)
	}
	for y != b.Y {
		path = append(path, Point{x, y})
		y += step(y, b.Y)
	}
	return append(path, Point{x, y})
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// randomPoint picks a uniform cell inside a non-empty room, drawing x then y.
func randomPoint(rng bsp.Rand, room bsp.Rect) Point {
	return Point{
		X: room.X + rng.IntN(room.Width),
		Y: room.Y + rng.IntN(room.Height),
	}
}
