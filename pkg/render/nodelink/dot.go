package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dci/pkg/pag"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Title is drawn above the graph when set.
	Title string

	// Underlines draws an extra label listing underlined triples.
	Underlines bool
}

// ToDOT converts a PAG to Graphviz DOT. Every edge is drawn with both ends
// visible: arrowheads as "normal", circles as "odot" and tails as "none".
func ToDOT(g *pag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	writeHeader(&buf, "  ")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")
	writeGraph(&buf, g, "  ", "", opts)
	buf.WriteString("}\n")
	return buf.String()
}

// ToDOTAll draws several graphs side by side, one cluster per graph,
// labelled with its position.
func ToDOTAll(graphs []*pag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	writeHeader(&buf, "  ")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	for i, g := range graphs {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n    style=rounded;\n    color=grey;\n", fmt.Sprintf("#%d", i+1))
		writeGraph(&buf, g, "    ", fmt.Sprintf("g%d_", i), opts)
		buf.WriteString("  }\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer, indent string) {
	buf.WriteString(indent + "bgcolor=\"transparent\";\n")
	buf.WriteString(indent + "layout=dot;\n")
	buf.WriteString(indent + "node [shape=ellipse, style=filled, fillcolor=white, fontsize=16];\n")
	buf.WriteString(indent + "edge [dir=both];\n")
	buf.WriteString(indent + "nodesep=0.4;\n")
}

func writeGraph(buf *bytes.Buffer, g *pag.Graph, indent, prefix string, opts Options) {
	for _, n := range g.Nodes() {
		fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, prefix+n, n)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(buf, "%s%q -> %q [arrowtail=%s, arrowhead=%s];\n",
			indent, prefix+e.X, prefix+e.Y, arrow(e.AtX), arrow(e.AtY))
	}
	if opts.Underlines {
		if us := g.Underlines(); len(us) > 0 {
			parts := make([]string, len(us))
			for i, t := range us {
				parts[i] = t.String()
			}
			fmt.Fprintf(buf, "%s%q [shape=note, label=%q];\n", indent, prefix+"_underlines",
				"underlined: "+strings.Join(parts, " "))
		}
	}
}

func arrow(e pag.Endpoint) string {
	switch e {
	case pag.Arrow:
		return "normal"
	case pag.Circle:
		return "odot"
	}
	return "none"
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
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
