package bsp

import "testing"

func TestRect(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 5}

	if r.Right() != 6 || r.Bottom() != 8 {
		t.Errorf("edges = (%d,%d), want (6,8)", r.Right(), r.Bottom())
	}
	if r.Area() != 20 {
		t.Errorf("Area() = %d, want 20", r.Area())
	}
	if !r.Contains(2, 3) || !r.Contains(5, 7) || r.Contains(6, 7) || r.Contains(5, 8) {
		t.Error("Contains() wrong at edges")
	}
	if x, y := r.Center(); x != 4 || y != 5 {
		t.Errorf("Center() = (%d,%d), want (4,5)", x, y)
	}
	if got := r.String(); got != "(2,3 4x5)" {
		t.Errorf("String() = %q", got)
	}
}

func TestRectOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"adjacent", Rect{Width: 5, Height: 5}, Rect{X: 5, Width: 5, Height: 5}, false},
		{"shared column", Rect{Width: 5, Height: 5}, Rect{X: 4, Width: 5, Height: 5}, true},
		{"nested", Rect{Width: 10, Height: 10}, Rect{X: 2, Y: 2, Width: 2, Height: 2}, true},
		{"empty", Rect{Width: 10, Height: 10}, Rect{X: 2, Y: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{Width: 0, Height: 3}).Empty() {
		t.Error("zero width should be empty")
	}
	if (Rect{Width: 1, Height: 1}).Empty() {
		t.Error("1x1 should not be empty")
	}
	if (Rect{Width: -2, Height: 3}).Area() != 0 {
		t.Error("negative width should have zero area")
	}
}
