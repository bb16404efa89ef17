// Package treeviz renders the binary space partition tree behind a dungeon.
//
// Each node of the tree becomes a Graphviz box labelled with its region;
// internal nodes show the cut orientation and leaves show the room carved
// inside them. Leaves whose room collapsed to zero area are drawn dashed.
//
//	root := gen.GenerateTree()
//	dot := treeviz.ToDOT(root, treeviz.Options{Detailed: true})
//	svg, err := treeviz.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through [github.com/goccy/go-graphviz].
// For PDF or PNG output, pass the SVG to [render.ToPDF] or [render.ToPNG].
//
// [render.ToPDF]: github.com/matzehuels/dungeonforge/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/dungeonforge/pkg/render.ToPNG
package treeviz
