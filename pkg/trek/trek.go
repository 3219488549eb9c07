package trek

import (
	"slices"
	"strings"

	"github.com/matzehuels/dci/pkg/pag"
)

// Unlimited disables the length bound of [Treks].
const Unlimited = -1

// Treks returns every simple path from x to y with no definite collider.
// Paths are listed in discovery order, which follows the adjacency order
// of g. maxLen bounds the number of nodes on a path; [Unlimited] (or any
// negative value) means no bound.
func Treks(g *pag.Graph, x, y string, maxLen int) [][]string {
	if x == y || !g.HasNode(x) || !g.HasNode(y) {
		return nil
	}
	var out [][]string
	path := []string{x}
	onPath := map[string]bool{x: true}

	var walk func()
	walk = func() {
		if maxLen >= 0 && len(path) >= maxLen {
			return
		}
		cur := path[len(path)-1]
		for _, next := range g.Adjacent(cur) {
			if onPath[next] {
				continue
			}
			if len(path) > 1 && g.IsDefCollider(path[len(path)-2], cur, next) {
				continue
			}
			if next == y {
				out = append(out, append(slices.Clone(path), y))
				continue
			}
			path = append(path, next)
			onPath[next] = true
			walk()
			onPath[next] = false
			path = path[:len(path)-1]
		}
	}
	walk()
	return out
}

// IsSubtrek reports whether short is an ordered subsequence of long.
func IsSubtrek(long, short []string) bool {
	l := 0
	for _, n := range short {
		for l < len(long) && long[l] != n {
			l++
		}
		if l >= len(long) {
			return false
		}
		l++
	}
	return true
}

// IsSubpath reports whether sub occurs as a contiguous run of path, read
// forwards or backwards.
func IsSubpath(path, sub []string) bool {
	if len(sub) == 0 {
		return true
	}
	if len(sub) > len(path) {
		return false
	}
	rev := slices.Clone(sub)
	slices.Reverse(rev)
	for k := 0; k+len(sub) <= len(path); k++ {
		window := path[k : k+len(sub)]
		if slices.Equal(window, sub) || slices.Equal(window, rev) {
			return true
		}
	}
	return false
}

// EdgeSet is a sorted, duplicate-free set of edge identities.
type EdgeSet []pag.Pair

// EdgesOf returns the edges traversed by a node path.
func EdgesOf(path []string) EdgeSet {
	s := make(EdgeSet, 0, len(path))
	for k := 0; k+1 < len(path); k++ {
		s = append(s, pag.NewPair(path[k], path[k+1]))
	}
	slices.SortFunc(s, pag.ComparePairs)
	return slices.Compact(s)
}

// Has reports whether p is in the set.
func (s EdgeSet) Has(p pag.Pair) bool {
	_, ok := slices.BinarySearchFunc(s, p, pag.ComparePairs)
	return ok
}

// Intersects reports whether s and o share an edge.
func (s EdgeSet) Intersects(o map[pag.Pair]struct{}) bool {
	for _, p := range s {
		if _, ok := o[p]; ok {
			return true
		}
	}
	return false
}

// Key returns a canonical string for map keys.
func (s EdgeSet) Key() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.String()
	}
	return strings.Join(parts, ";")
}

func pathKey(path []string) string { return strings.Join(path, ",") }
