// Package sepset records which conditioning sets separate which variable
// pairs.
//
// A [Map] is the separation ledger of one local model: for every pair found
// independent it keeps the list of conditioning sets under which the
// independence was observed. The merge search consults one ledger per model
// and never mutates them after construction.
package sepset

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/dci/pkg/combin"
	"github.com/matzehuels/dci/pkg/pag"
)

// Map is a separation ledger. The zero value is not usable - use [New].
type Map struct {
	sets map[pag.Pair][][]string
}

// New creates an empty ledger.
func New() *Map {
	return &Map{sets: make(map[pag.Pair][][]string)}
}

// normalize returns a sorted, de-duplicated copy of z that never aliases
// the caller's slice.
func normalize(z []string) []string {
	out := slices.Clone(z)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}

// Add records that z separates x and y. Recording the same set twice is a
// no-op.
func (m *Map) Add(x, y string, z []string) {
	p := pag.NewPair(x, y)
	z = normalize(z)
	for _, s := range m.sets[p] {
		if slices.Equal(s, z) {
			return
		}
	}
	m.sets[p] = append(m.sets[p], z)
}

// Set replaces every recorded set for the pair with z.
func (m *Map) Set(x, y string, z []string) {
	m.sets[pag.NewPair(x, y)] = [][]string{normalize(z)}
}

// Remove forgets the pair.
func (m *Map) Remove(x, y string) { delete(m.sets, pag.NewPair(x, y)) }

// Has reports whether any separating set is recorded for the pair.
func (m *Map) Has(x, y string) bool {
	_, ok := m.sets[pag.NewPair(x, y)]
	return ok
}

// Get returns the union of the recorded separating sets, sorted. It returns
// nil, false when the pair was never separated, and an empty non-nil slice
// when it was separated by the empty set only.
func (m *Map) Get(x, y string) ([]string, bool) {
	sets, ok := m.sets[pag.NewPair(x, y)]
	if !ok {
		return nil, false
	}
	union := []string{}
	for _, s := range sets {
		union = append(union, s...)
	}
	return normalize(union), true
}

// Sets returns the recorded separating sets in insertion order. The result
// must not be modified.
func (m *Map) Sets(x, y string) [][]string { return m.sets[pag.NewPair(x, y)] }

// Contains reports whether b appears in some separating set of the pair.
func (m *Map) Contains(x, y, b string) bool {
	for _, s := range m.sets[pag.NewPair(x, y)] {
		if _, found := slices.BinarySearch(s, b); found {
			return true
		}
	}
	return false
}

// Pairs returns every separated pair in lexicographic order.
func (m *Map) Pairs() []pag.Pair {
	return slices.SortedFunc(maps.Keys(m.sets), pag.ComparePairs)
}

// Len returns the number of separated pairs.
func (m *Map) Len() int { return len(m.sets) }

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	c := New()
	for p, sets := range m.sets {
		cs := make([][]string, len(sets))
		for i, s := range sets {
			cs[i] = slices.Clone(s)
		}
		c.sets[p] = cs
	}
	return c
}

// Restrict returns the part of the ledger that lives inside vars: pairs with
// both nodes in vars, keeping only sets drawn from vars.
func (m *Map) Restrict(vars []string) *Map {
	in := make(map[string]bool, len(vars))
	for _, v := range vars {
		in[v] = true
	}
	out := New()
	for p, sets := range m.sets {
		if !in[p.A] || !in[p.B] {
			continue
		}
		for _, s := range sets {
			if !slices.ContainsFunc(s, func(n string) bool { return !in[n] }) {
				out.Add(p.A, p.B, s)
			}
		}
	}
	return out
}

// Closure records every separation that holds in g between two nodes given
// a subset of their combined adjacents. The number of subsets is
// exponential in the degree, so this is meant as one-time preprocessing.
func (m *Map) Closure(g *pag.Graph) {
	nodes := g.Nodes()
	for i, x := range nodes {
		for _, y := range nodes[i+1:] {
			var candidates []string
			for _, n := range append(slices.Clone(g.Adjacent(x)), g.Adjacent(y)...) {
				if n != x && n != y && !slices.Contains(candidates, n) {
					candidates = append(candidates, n)
				}
			}
			for z := range combin.PowerSet(candidates) {
				if g.IsDSeparated(x, y, z) {
					m.Add(x, y, z)
				}
			}
		}
	}
}

// Combine merges several ledgers into a new one.
func Combine(ledgers ...*Map) *Map {
	out := New()
	for _, l := range ledgers {
		for p, sets := range l.sets {
			for _, s := range sets {
				out.Add(p.A, p.B, s)
			}
		}
	}
	return out
}

// String lists one pair per line with its sets.
func (m *Map) String() string {
	var b strings.Builder
	for _, p := range m.Pairs() {
		b.WriteString(p.String())
		b.WriteString(":")
		for _, s := range m.sets[p] {
			b.WriteString(" [")
			b.WriteString(strings.Join(s, " "))
			b.WriteString("]")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
