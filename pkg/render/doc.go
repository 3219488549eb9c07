// Package render names the output formats search results can be rendered
// to.
//
// Graph drawing lives in the [nodelink] subpackage, which turns PAGs into
// Graphviz DOT and SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/dci/pkg/render/nodelink
package render
