package pag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectedCycle(t *testing.T) {
	g := mustGraph(t, "A", "B", "C")
	require.NoError(t, g.AddDirectedEdge("A", "B"))
	require.NoError(t, g.AddDirectedEdge("B", "C"))
	assert.False(t, g.ExistsDirectedCycle())
	assert.True(t, g.ExistsDirectedPath("A", "C"))
	assert.True(t, g.IsAncestorOf("A", "C"))
	assert.False(t, g.IsAncestorOf("C", "A"))

	require.NoError(t, g.AddDirectedEdge("C", "A"))
	assert.True(t, g.ExistsDirectedCycle())
}

func TestPossibleAncestor(t *testing.T) {
	// A o-o B o-> C <-- D
	g := mustGraph(t, "A", "B", "C", "D")
	require.NoError(t, g.AddNondirectedEdge("A", "B"))
	require.NoError(t, g.AddEdge("B", "C", Circle, Arrow))
	require.NoError(t, g.AddDirectedEdge("D", "C"))

	assert.True(t, g.IsPossibleAncestorOf("A", "C"))
	assert.True(t, g.IsPossibleAncestorOf("C", "C"))
	assert.False(t, g.IsPossibleAncestorOf("C", "B"))
	assert.False(t, g.IsPossibleAncestorOf("C", "D"))
}

func TestDSeparation(t *testing.T) {
	// Chain X --> M --> Y and fork M <-- W --> Y.
	g := mustGraph(t, "X", "M", "Y", "W")
	require.NoError(t, g.AddDirectedEdge("X", "M"))
	require.NoError(t, g.AddDirectedEdge("M", "Y"))
	require.NoError(t, g.AddDirectedEdge("W", "M"))
	require.NoError(t, g.AddDirectedEdge("W", "Y"))

	tests := []struct {
		name string
		x, y string
		z    []string
		sep  bool
	}{
		{"chain open", "X", "Y", nil, false},
		{"chain blocked but collider at M opens X-M<-W-Y", "X", "Y", []string{"M"}, false},
		{"blocked by M and W", "X", "Y", []string{"M", "W"}, true},
		{"collider at M blocks X and W", "X", "W", nil, true},
		{"descendant of collider opens", "X", "W", []string{"Y"}, false},
		{"same node", "X", "X", nil, false},
		{"adjacent", "X", "M", []string{"W"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sep, g.IsDSeparated(tt.x, tt.y, tt.z))
		})
	}
}

func TestDSeparationNondirected(t *testing.T) {
	// A *-> B o-o C reads as A *-> B o-> C, so conditioning on B blocks.
	g := mustGraph(t, "A", "B", "C")
	require.NoError(t, g.AddEdge("A", "B", Circle, Arrow))
	require.NoError(t, g.AddNondirectedEdge("B", "C"))

	assert.False(t, g.IsDSeparated("A", "C", nil))
	assert.True(t, g.IsDSeparated("A", "C", []string{"B"}))
}

func TestDSeparationUnderline(t *testing.T) {
	// A <-> B <-> C is a collider unless underlined.
	g := mustGraph(t, "A", "B", "C")
	require.NoError(t, g.AddBidirectedEdge("A", "B"))
	require.NoError(t, g.AddBidirectedEdge("B", "C"))
	assert.True(t, g.IsDSeparated("A", "C", nil))

	g.AddUnderline("A", "B", "C")
	assert.False(t, g.IsDSeparated("A", "C", nil))
	assert.True(t, g.IsDSeparated("A", "C", []string{"B"}))
}
