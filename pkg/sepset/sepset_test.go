package sepset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dci/pkg/pag"
)

func TestGetUnion(t *testing.T) {
	m := New()
	_, ok := m.Get("A", "C")
	assert.False(t, ok)

	m.Add("A", "C", nil)
	got, ok := m.Get("C", "A")
	require.True(t, ok)
	assert.NotNil(t, got, "empty separating set is distinguishable from none")
	assert.Empty(t, got)

	m.Add("A", "C", []string{"B", "D"})
	m.Add("C", "A", []string{"D", "B"})
	m.Add("A", "C", []string{"E"})
	got, _ = m.Get("A", "C")
	assert.Equal(t, []string{"B", "D", "E"}, got)
	assert.Len(t, m.Sets("A", "C"), 3)

	assert.True(t, m.Contains("C", "A", "E"))
	assert.False(t, m.Contains("A", "C", "Q"))
}

func TestSetReplaces(t *testing.T) {
	m := New()
	m.Add("X", "Y", []string{"A"})
	m.Add("X", "Y", []string{"B"})
	m.Set("Y", "X", []string{"C"})
	assert.Equal(t, [][]string{{"C"}}, m.Sets("X", "Y"))
}

func TestCombineAndRestrict(t *testing.T) {
	a := New()
	a.Add("A", "C", []string{"B"})
	b := New()
	b.Add("A", "C", []string{"B"})
	b.Add("B", "D", []string{"C", "E"})

	all := Combine(a, b)
	assert.Equal(t, []pag.Pair{{A: "A", B: "C"}, {A: "B", B: "D"}}, all.Pairs())
	assert.Len(t, all.Sets("A", "C"), 1)

	r := all.Restrict([]string{"A", "B", "C", "D"})
	assert.True(t, r.Has("A", "C"))
	assert.False(t, r.Has("B", "D"), "set mentions E, outside the restriction")

	c := all.Clone()
	c.Remove("A", "C")
	assert.True(t, all.Has("A", "C"))
}

func TestClosure(t *testing.T) {
	// A --> B --> C
	g, err := pag.New("A", "B", "C")
	require.NoError(t, err)
	require.NoError(t, g.AddDirectedEdge("A", "B"))
	require.NoError(t, g.AddDirectedEdge("B", "C"))

	m := New()
	m.Closure(g)
	assert.Equal(t, []pag.Pair{{A: "A", B: "C"}}, m.Pairs())
	assert.Equal(t, [][]string{{"B"}}, m.Sets("A", "C"))
}
