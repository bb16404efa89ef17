package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dungeonforge/pkg/bsp"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed adds the region size, depth and room rectangle to node labels.
	// When false, only the node path is shown.
	Detailed bool
}

// ToDOT converts a partition tree to Graphviz DOT. Nodes are named by their
// path from the root ("r", "rL", "rLR", ...), which is stable for a given tree.
func ToDOT(root *bsp.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph BSP {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var edges []string
	var visit func(n *bsp.Node, id string, depth int)
	visit = func(n *bsp.Node, id string, depth int) {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n, id, depth, opts.Detailed), ", "))
		for _, child := range []struct {
			node   *bsp.Node
			suffix string
		}{{n.Left, "L"}, {n.Right, "R"}} {
			if child.node == nil {
				continue
			}
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", id, id+child.suffix))
			visit(child.node, id+child.suffix, depth+1)
		}
	}
	if root != nil {
		visit(root, "r", 0)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *bsp.Node, id string, depth int, detailed bool) string {
	if !detailed {
		return id
	}
	parts := []string{
		fmt.Sprintf("region: %v", n.Region),
		fmt.Sprintf("depth: %d", depth),
	}
	switch {
	case !n.IsLeaf() && n.Horizontal:
		parts = append(parts, fmt.Sprintf("cut: y=%d", n.Left.Region.Bottom()))
	case !n.IsLeaf():
		parts = append(parts, fmt.Sprintf("cut: x=%d", n.Left.Region.Right()))
	case n.Room.Empty():
		parts = append(parts, "room: none")
	default:
		parts = append(parts, fmt.Sprintf("room: %v", n.Room))
	}
	return id + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *bsp.Node, id string, depth int, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, id, depth, detailed))}
	switch {
	case !n.IsLeaf():
		attrs = append(attrs, "fillcolor=lightgrey")
	case n.Room.Empty():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
	default:
		attrs = append(attrs, "fillcolor=\"#e9e4d4\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's pt-sized root element to a plain
// viewBox so the SVG scales like the map renderer's output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
