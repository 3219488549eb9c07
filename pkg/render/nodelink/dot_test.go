package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/dci/pkg/pag"
)

func sample(t *testing.T) *pag.Graph {
	t.Helper()
	g, err := pag.New("A", "B", "C")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("A", "B", pag.Circle, pag.Arrow); err != nil {
		t.Fatal(err)
	}
	if err := g.AddDirectedEdge("B", "C"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t), Options{Title: "best"})

	for _, want := range []string{
		"digraph G {",
		`label="best";`,
		`"A" [label="A"];`,
		`"A" -> "B" [arrowtail=odot, arrowhead=normal];`,
		`"B" -> "C" [arrowtail=none, arrowhead=normal];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTUnderlines(t *testing.T) {
	g := sample(t)
	g.AddUnderline("A", "B", "C")

	if dot := ToDOT(g, Options{}); strings.Contains(dot, "underlined") {
		t.Errorf("underlines drawn without option:\n%s", dot)
	}
	if dot := ToDOT(g, Options{Underlines: true}); !strings.Contains(dot, "underlined: ") {
		t.Errorf("underlines missing:\n%s", dot)
	}
}

func TestToDOTAll(t *testing.T) {
	g := sample(t)
	h := g.Clone()
	h.SetEndpoint("B", "A", pag.Arrow)

	dot := ToDOTAll([]*pag.Graph{g, h}, Options{})
	for _, want := range []string{
		"subgraph cluster_0 {",
		"subgraph cluster_1 {",
		`"g0_A" -> "g0_B" [arrowtail=odot, arrowhead=normal];`,
		`"g1_A" -> "g1_B" [arrowtail=normal, arrowhead=normal];`,
		`label="#2";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s, want %s", out, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox changed SVG without viewBox: %s", got)
	}
}
