package orient

import (
	"slices"

	"github.com/matzehuels/dci/pkg/combin"
	"github.com/matzehuels/dci/pkg/pag"
)

// completeRules applies R5 once, R6 and R7 to fixpoint, then R8 to R10 to
// fixpoint.
func (o *Orienter) completeRules(g *pag.Graph) bool {
	changed := ruleR5(g)
	for ruleR6R7(g) {
		changed = true
	}
	for rulesR8R9R10(g) {
		changed = true
	}
	return changed
}

// ruleR5: for any a o-o b with an uncovered circle path <a, c, ..., d, b>
// where a, d and b, c are non-adjacent, a --- b and every edge on the path
// becomes undirected.
func ruleR5(g *pag.Graph) bool {
	changed := false
	for _, a := range g.Nodes() {
		for _, b := range g.NodesInTo(a, pag.Circle) {
			if g.Endpoint(a, b) != pag.Circle {
				continue
			}
			for _, u := range uncoveredCirclePaths(g, a, b) {
				if len(u) < 3 {
					continue
				}
				c, d := u[1], u[len(u)-2]
				if g.IsAdjacent(a, d) || g.IsAdjacent(b, c) {
					continue
				}
				changed = g.SetEndpoint(a, b, pag.Tail) || changed
				changed = g.SetEndpoint(b, a, pag.Tail) || changed
				for i := 0; i+1 < len(u); i++ {
					changed = g.SetEndpoint(u[i], u[i+1], pag.Tail) || changed
					changed = g.SetEndpoint(u[i+1], u[i], pag.Tail) || changed
				}
			}
		}
	}
	return changed
}

// ruleR6R7 orients single tails. R6: a --- b o-* c gives a --- b --* c.
// R7: a --o b o-* c with a, c non-adjacent gives a --o b --* c.
func ruleR6R7(g *pag.Graph) bool {
	changed := false
	for _, b := range g.Nodes() {
		adj := g.Adjacent(b)
		for idx := range combin.Choose(len(adj), 2) {
			x, y := adj[idx[0]], adj[idx[1]]
			changed = singleTail(g, x, b, y) || changed
			changed = singleTail(g, y, b, x) || changed
		}
	}
	return changed
}

func singleTail(g *pag.Graph, a, b, c string) bool {
	if g.Endpoint(b, a) != pag.Tail || g.Endpoint(c, b) != pag.Circle {
		return false
	}
	switch g.Endpoint(a, b) {
	case pag.Tail:
		return g.SetEndpoint(c, b, pag.Tail)
	case pag.Circle:
		if g.IsAdjacent(a, c) {
			return false
		}
		return g.SetEndpoint(c, b, pag.Tail)
	}
	return false
}

// rulesR8R9R10 tries R8, R9 and R10 in that order on every a o-> c.
func rulesR8R9R10(g *pag.Graph) bool {
	changed := false
	for _, c := range g.Nodes() {
		for _, a := range g.NodesInTo(c, pag.Arrow) {
			if g.Endpoint(c, a) != pag.Circle {
				continue
			}
			if ruleR8(g, a, c) || ruleR9(g, a, c) || ruleR10(g, a, c) {
				changed = true
			}
		}
	}
	return changed
}

// ruleR8: a o-> c with a --> b --> c or a --o b --> c gives a --> c.
func ruleR8(g *pag.Graph, a, c string) bool {
	for _, b := range g.NodesInTo(c, pag.Arrow) {
		if b == a || !g.IsAdjacent(a, b) {
			continue
		}
		if g.Endpoint(b, a) != pag.Tail || g.Endpoint(c, b) != pag.Tail {
			continue
		}
		if g.Endpoint(a, b) == pag.Tail {
			continue
		}
		return g.SetEndpoint(c, a, pag.Tail)
	}
	return false
}

// ruleR9: a o-> c with an uncovered potentially directed path
// <a, b, ..., c> where b and c are non-adjacent gives a --> c.
func ruleR9(g *pag.Graph, a, c string) bool {
	for _, u := range uncoveredPDPaths(g, a, c) {
		b := u[1]
		if b == c || g.IsAdjacent(b, c) {
			continue
		}
		return g.SetEndpoint(c, a, pag.Tail)
	}
	return false
}

// ruleR10: a o-> c with b --> c <-- d, an uncovered potentially directed
// path <a, m, ..., b> and another <a, n, ..., d> where m != n are
// non-adjacent gives a --> c.
func ruleR10(g *pag.Graph, a, c string) bool {
	var parents []string
	for _, p := range g.Parents(c) {
		if p != a {
			parents = append(parents, p)
		}
	}
	for idx := range combin.Choose(len(parents), 2) {
		b, d := parents[idx[0]], parents[idx[1]]
		toB := uncoveredPDPaths(g, a, b)
		toD := uncoveredPDPaths(g, a, d)
		for _, u1 := range toB {
			for _, u2 := range toD {
				m, n := u1[1], u2[1]
				if m == n || g.IsAdjacent(m, n) {
					continue
				}
				return g.SetEndpoint(c, a, pag.Tail)
			}
		}
	}
	return false
}

// uncoveredPDPaths returns every uncovered potentially directed path from
// start to end. A path is potentially directed when no step x, y has an
// arrowhead at x or a tail at y, and uncovered when no two nodes two steps
// apart are adjacent.
func uncoveredPDPaths(g *pag.Graph, start, end string) [][]string {
	var paths [][]string
	soFar := []string{start}

	var walk func(curr string)
	walk = func(curr string) {
		if slices.Contains(soFar, curr) {
			return
		}
		prev := soFar[len(soFar)-1]
		if !g.IsPotentiallyDirected(prev, curr) {
			return
		}
		if len(soFar) >= 2 && g.IsAdjacent(soFar[len(soFar)-2], curr) {
			return
		}
		soFar = append(soFar, curr)
		if curr == end {
			paths = append(paths, slices.Clone(soFar))
		} else {
			for _, next := range g.Adjacent(curr) {
				walk(next)
			}
		}
		soFar = soFar[:len(soFar)-1]
	}

	for _, n := range g.Adjacent(start) {
		walk(n)
	}
	return paths
}

// uncoveredCirclePaths returns the uncovered potentially directed paths
// from start to end whose edges are all o-o.
func uncoveredCirclePaths(g *pag.Graph, start, end string) [][]string {
	var out [][]string
	for _, u := range uncoveredPDPaths(g, start, end) {
		circles := true
		for i := 0; i+1 < len(u); i++ {
			if g.Endpoint(u[i], u[i+1]) != pag.Circle || g.Endpoint(u[i+1], u[i]) != pag.Circle {
				circles = false
				break
			}
		}
		if circles {
			out = append(out, u)
		}
	}
	return out
}
