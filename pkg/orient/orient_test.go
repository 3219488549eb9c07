package orient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/sepset"
)

// edge describes one edge for buildGraph: mark at X, mark at Y.
type edge struct {
	x, y     string
	atX, atY pag.Endpoint
}

func buildGraph(t *testing.T, nodes []string, edges ...edge) *pag.Graph {
	t.Helper()
	g, err := pag.New(nodes...)
	require.NoError(t, err)
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.x, e.y, e.atX, e.atY))
	}
	return g
}

func ledger(pairs ...[]string) *sepset.Map {
	m := sepset.New()
	for _, p := range pairs {
		m.Add(p[0], p[1], p[2:])
	}
	return m
}

const (
	circle = pag.Circle
	arrow  = pag.Arrow
	tail   = pag.Tail
)

func TestOrientCollidersUnshielded(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", circle, circle}, edge{"B", "C", circle, circle})

	or := New([]Model{{Ledger: ledger([]string{"A", "C"})}}, Options{})
	nc := or.OrientColliders(g)

	assert.Empty(t, nc)
	assert.True(t, g.IsDefCollider("A", "B", "C"))
	assert.Equal(t, circle, g.Endpoint("B", "A"))
	assert.Equal(t, circle, g.Endpoint("B", "C"))
}

func TestOrientCollidersNoncollider(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", circle, circle}, edge{"B", "C", circle, circle})

	or := New([]Model{{Ledger: ledger([]string{"A", "C", "B"})}}, Options{})
	nc := or.OrientColliders(g)

	assert.Equal(t, []pag.Triple{pag.NewTriple("A", "B", "C")}, nc)
	assert.True(t, g.IsUnderline("C", "B", "A"))
	assert.Equal(t, circle, g.Endpoint("A", "B"))
	assert.Equal(t, circle, g.Endpoint("C", "B"))
}

func TestOrientCollidersRespectsMarginal(t *testing.T) {
	// The model never measured B, so it cannot orient anything at B.
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", circle, circle}, edge{"B", "C", circle, circle})

	or := New([]Model{{Variables: []string{"A", "C"}, Ledger: ledger([]string{"A", "C"})}}, Options{})
	or.OrientColliders(g)

	assert.Equal(t, circle, g.Endpoint("A", "B"))
	assert.Equal(t, circle, g.Endpoint("C", "B"))
}

func TestGuardNeverOverwritesTail(t *testing.T) {
	// A --> B puts a tail at A; the ledger asks for B *-> A <-* C.
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", tail, arrow}, edge{"A", "C", circle, circle})

	or := New([]Model{{Ledger: ledger([]string{"B", "C"})}}, Options{})
	or.OrientColliders(g)
	or.Orient(g)

	assert.Equal(t, tail, g.Endpoint("B", "A"))
	assert.False(t, ArrowpointAllowed(g, "B", "A"))
	assert.False(t, ArrowpointAllowed(g, "B", "C"), "no edge, no arrowhead")
}

func TestAwayFromCollider(t *testing.T) {
	// A o-> B o-o C with A, C non-adjacent gives B --> C.
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", circle, arrow}, edge{"B", "C", circle, circle})

	New(nil, Options{}).Orient(g)

	assert.True(t, g.IsParentOf("B", "C"))
}

func TestAwayFromAncestorAndCycle(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", tail, arrow}, edge{"B", "C", tail, arrow}, edge{"A", "C", circle, circle})

	New(nil, Options{}).Orient(g)

	assert.True(t, g.IsParentOf("A", "C"))
	assert.False(t, g.ExistsDirectedCycle())
}

func TestDoubleTriangle(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C", "D"},
		edge{"A", "B", circle, arrow}, edge{"C", "B", circle, arrow}, edge{"D", "B", circle, circle},
		edge{"A", "D", circle, circle}, edge{"C", "D", circle, circle})

	or := New(nil, Options{})
	assert.True(t, or.doubleTriangle(g, false))
	assert.Equal(t, arrow, g.Endpoint("D", "B"))
	assert.False(t, or.doubleTriangle(g, false))
}

func TestDoubleTriangleRestricted(t *testing.T) {
	build := func() *pag.Graph {
		return buildGraph(t, []string{"A", "B", "C", "D"},
			edge{"A", "B", circle, arrow}, edge{"C", "B", circle, arrow}, edge{"D", "B", circle, circle},
			edge{"A", "D", circle, circle}, edge{"C", "D", circle, circle})
	}

	// A, B, C measured together but A, D, C never are.
	or := New([]Model{
		{Variables: []string{"A", "B", "C"}, Ledger: sepset.New()},
		{Variables: []string{"B", "D"}, Ledger: sepset.New()},
	}, Options{})
	g := build()
	assert.False(t, or.doubleTriangle(g, true))

	or = New([]Model{
		{Variables: []string{"A", "B", "C"}, Ledger: sepset.New()},
		{Variables: []string{"A", "C", "D"}, Ledger: sepset.New()},
	}, Options{})
	g = build()
	assert.True(t, or.doubleTriangle(g, true))
}

// ddpGraph has the discriminating path <L, A, B, C>: L o-> A <-o B o-> C
// with A --> C and L, C non-adjacent.
func ddpGraph(t *testing.T) *pag.Graph {
	return buildGraph(t, []string{"L", "A", "B", "C"},
		edge{"L", "A", circle, arrow}, edge{"B", "A", circle, arrow}, edge{"A", "C", tail, arrow}, edge{"B", "C", circle, arrow})
}

func TestDiscriminatingPathDeterministic(t *testing.T) {
	g := ddpGraph(t)
	New([]Model{{Ledger: ledger([]string{"L", "C", "B"})}}, Options{}).Orient(g)
	assert.True(t, g.IsParentOf("B", "C"), "B in the separating set makes it a non-collider")

	g = ddpGraph(t)
	New([]Model{{Ledger: ledger([]string{"L", "C", "A"})}}, Options{}).Orient(g)
	assert.True(t, g.IsDefCollider("A", "B", "C"))
}

func TestFinalBranchesOnDiscriminatingPath(t *testing.T) {
	g := ddpGraph(t)
	key := g.Key()

	or := New([]Model{{Ledger: ledger([]string{"L", "C", "A"})}}, Options{})
	out := or.Final(g)
	require.Len(t, out, 2)
	assert.True(t, out[0].IsParentOf("B", "C"))
	assert.True(t, out[1].IsDefCollider("A", "B", "C"))
	assert.Equal(t, key, g.Key(), "input graph untouched")

	or = New([]Model{{Ledger: ledger([]string{"L", "C", "B"})}}, Options{})
	out = or.Final(g)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsParentOf("B", "C"))
}

func TestFinalWithoutDiscriminatingPath(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", circle, arrow}, edge{"B", "C", circle, circle})

	or := New(nil, Options{})
	out := or.Final(g)
	require.Len(t, out, 1)

	h := g.Clone()
	or.Orient(h)
	assert.True(t, out[0].Equal(h))
}

func TestOrientIdempotent(t *testing.T) {
	graphs := map[string]*pag.Graph{
		"ddp": ddpGraph(t),
		"collider chain": buildGraph(t, []string{"A", "B", "C", "D"},
			edge{"A", "B", circle, arrow}, edge{"B", "C", circle, circle}, edge{"C", "D", circle, circle}),
		"triangle": buildGraph(t, []string{"A", "B", "C"},
			edge{"A", "B", tail, arrow}, edge{"B", "C", tail, arrow}, edge{"A", "C", circle, circle}),
	}
	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			or := New([]Model{{Ledger: ledger([]string{"L", "C"})}}, Options{CompleteRuleSet: true})
			or.Orient(g)
			key := g.Key()
			assert.False(t, or.Orient(g))
			assert.Equal(t, key, g.Key())
		})
	}
}

func TestRuleR6(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", tail, tail}, edge{"B", "C", circle, circle})

	assert.True(t, ruleR6R7(g))
	assert.Equal(t, tail, g.Endpoint("C", "B"))
	assert.Equal(t, circle, g.Endpoint("B", "C"))
}

func TestRuleR7(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", tail, circle}, edge{"B", "C", circle, circle})

	assert.True(t, ruleR6R7(g))
	assert.Equal(t, tail, g.Endpoint("C", "B"))
}

func TestRuleR8(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"},
		edge{"A", "B", tail, arrow}, edge{"B", "C", tail, arrow}, edge{"A", "C", circle, arrow})

	assert.True(t, ruleR8(g, "A", "C"))
	assert.True(t, g.IsParentOf("A", "C"))
}

func TestRuleR9(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C", "D"},
		edge{"A", "C", circle, arrow}, edge{"A", "B", circle, circle}, edge{"B", "D", circle, circle}, edge{"D", "C", circle, arrow})

	assert.True(t, ruleR9(g, "A", "C"))
	assert.True(t, g.IsParentOf("A", "C"))
}

func TestRuleR10(t *testing.T) {
	// A o-> C, B --> C <-- D, A o-o B, A o-o D with B, D non-adjacent.
	g := buildGraph(t, []string{"A", "B", "C", "D"},
		edge{"A", "C", circle, arrow}, edge{"B", "C", tail, arrow}, edge{"D", "C", tail, arrow},
		edge{"A", "B", circle, circle}, edge{"A", "D", circle, circle})

	assert.True(t, ruleR10(g, "A", "C"))
	assert.True(t, g.IsParentOf("A", "C"))
}

func TestRuleR5(t *testing.T) {
	// A o-o B closed by the uncovered circle path A o-o C o-o D o-o B.
	g := buildGraph(t, []string{"A", "B", "C", "D"},
		edge{"A", "B", circle, circle}, edge{"A", "C", circle, circle}, edge{"C", "D", circle, circle}, edge{"D", "B", circle, circle})

	assert.True(t, ruleR5(g))
	for _, e := range g.Edges() {
		assert.True(t, e.IsUndirected(), e.String())
	}
}
