package pipeline

import (
	"bytes"
	"context"
	"fmt"

	dciio "github.com/matzehuels/dci/pkg/io"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/render"
	"github.com/matzehuels/dci/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, variables []string, graphs []*pag.Graph, opts Options) (map[string][]byte, error) {
	selected, err := opts.selectGraphs(graphs)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch render.Format(format) {
		case render.FormatText:
			var buf bytes.Buffer
			err = render.WriteText(&buf, selected)
			data = buf.Bytes()
		case render.FormatJSON:
			var buf bytes.Buffer
			err = dciio.WriteJSON(&buf, variables, selected)
			data = buf.Bytes()
		case render.FormatDOT:
			dot = toDOT(dot, selected, opts)
			data = []byte(dot)
		case render.FormatSVG:
			dot = toDOT(dot, selected, opts)
			data, err = nodelink.RenderSVG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// toDOT builds the DOT source once per render call.
func toDOT(prev string, graphs []*pag.Graph, opts Options) string {
	if prev != "" {
		return prev
	}
	nl := nodelink.Options{Title: opts.Title, Underlines: opts.Underlines}
	if len(graphs) == 1 {
		return nodelink.ToDOT(graphs[0], nl)
	}
	return nodelink.ToDOTAll(graphs, nl)
}
