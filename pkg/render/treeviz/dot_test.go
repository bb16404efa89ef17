package treeviz

import (
	"strings"
	"testing"

	"github.com/matzehuels/dungeonforge/pkg/bsp"
)

func testTree() *bsp.Node {
	root := bsp.NewNode(bsp.Rect{Width: 20, Height: 10})
	root.Left = bsp.NewNode(bsp.Rect{Width: 12, Height: 10})
	root.Right = bsp.NewNode(bsp.Rect{X: 12, Width: 8, Height: 10})
	root.Right.Left = bsp.NewNode(bsp.Rect{X: 12, Width: 8, Height: 1})
	root.Right.Right = bsp.NewNode(bsp.Rect{X: 12, Y: 1, Width: 8, Height: 9})
	root.Right.Horizontal = true
	root.CollectRooms(2)
	return root
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testTree(), Options{})

	if !strings.HasPrefix(dot, "digraph BSP {") {
		t.Errorf("unexpected header: %q", dot[:20])
	}
	for _, want := range []string{
		`"r" -> "rL";`,
		`"r" -> "rR";`,
		`"rR" -> "rRL";`,
		`"rR" -> "rRR";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing edge %s", want)
		}
	}
	if strings.Count(dot, "->") != 4 {
		t.Errorf("edge count = %d, want 4", strings.Count(dot, "->"))
	}
	// rRL is one cell tall, so its room is empty.
	if !strings.Contains(dot, `"rRL" [label="rRL", style="rounded,filled,dashed"`) {
		t.Error("empty leaf should be dashed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testTree(), Options{Detailed: true})
	for _, want := range []string{
		`cut: x=12`,
		`cut: y=1`,
		`room: (1,1 10x8)`,
		`room: none`,
		`depth: 2`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestToDOTNil(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if strings.Contains(dot, "->") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("nil tree DOT = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should be unchanged")
	}
}
