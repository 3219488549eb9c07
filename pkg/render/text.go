package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/dci/pkg/pag"
)

// WriteText lists each graph as a numbered block of edges, one per line.
// Graphs without edges print "(no edges)".
func WriteText(w io.Writer, graphs []*pag.Graph) error {
	var b strings.Builder
	for i, g := range graphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "#%d\n", i+1)
		edges := g.Edges()
		if len(edges) == 0 {
			b.WriteString("  (no edges)\n")
		}
		for _, e := range edges {
			b.WriteString("  ")
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
