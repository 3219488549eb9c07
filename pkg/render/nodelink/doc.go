// Package nodelink draws partial ancestral graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, then render it to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Title: "#1"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOTAll] puts several graphs into one drawing, one cluster each, which
// is the usual way to look at the full output of a search.
//
// # Edge Marks
//
// Each edge is emitted with dir=both so both marks are visible. Arrowheads
// become "normal", circles "odot" and tails "none", so A o-> B is drawn
// with a hollow dot at A and an arrow at B.
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process. The DOT text can also be fed to any external Graphviz tool.
package nodelink
