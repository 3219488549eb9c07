package orient

import (
	"slices"

	"github.com/matzehuels/dci/pkg/pag"
)

// ddp is a discriminating path candidate: l is the far end, and the path
// decides whether b is a collider between a and c.
type ddp struct {
	l, a, b, c string
}

// candidates yields every (a, b, c) with b *-> a (b not a tail), b o-> c and
// a --> c, i.e. the triangles at the end of a potential discriminating path.
func candidates(g *pag.Graph, yield func(a, b, c string) bool) {
	for _, b := range g.Nodes() {
		out := g.NodesOutTo(b, pag.Arrow)
		tails := g.NodesInTo(b, pag.Tail)
		circles := g.NodesInTo(b, pag.Circle)
		for _, a := range out {
			if slices.Contains(tails, a) {
				continue
			}
			for _, c := range out {
				if !slices.Contains(circles, c) || !g.IsParentOf(a, c) {
					continue
				}
				if !yield(a, b, c) {
					return
				}
			}
		}
	}
}

// findEnd searches backwards from a for the far end of a discriminating
// path for b between a and c. The body of the path consists of colliders
// that are parents of c; the end is the first node reached that is not
// adjacent to c. The search is breadth first with an explicit queue.
func (o *Orienter) findEnd(g *pag.Graph, a, b, c string, restricted bool) (string, bool) {
	parents := make(map[string]bool)
	for _, p := range g.Parents(c) {
		parents[p] = true
	}
	visited := map[string]bool{a: true, b: true, c: true}
	queue := []string{a}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, l := range g.NodesInTo(x, pag.Arrow) {
			if visited[l] {
				continue
			}
			if restricted && !o.jointly(a, b, c, l) {
				continue
			}
			if !g.IsAdjacent(l, c) {
				return l, true
			}
			if parents[l] && g.Endpoint(x, l) == pag.Arrow {
				visited[l] = true
				queue = append(queue, l)
			}
		}
	}
	return "", false
}

// discriminatingPaths applies R4 deterministically to every candidate:
// b becomes a non-collider if some ledger separates l and c with b, and a
// collider otherwise.
func (o *Orienter) discriminatingPaths(g *pag.Graph, restricted bool) bool {
	var found []ddp
	candidates(g, func(a, b, c string) bool {
		if restricted && !o.jointly(a, b, c) {
			return true
		}
		if l, ok := o.findEnd(g, a, b, c, restricted); ok {
			found = append(found, ddp{l: l, a: a, b: b, c: c})
		}
		return true
	})

	changed := false
	for _, p := range found {
		if g.Endpoint(p.c, p.b) != pag.Circle {
			continue
		}
		if o.separatedBy(p.l, p.c, p.b) {
			changed = g.SetEndpoint(p.c, p.b, pag.Tail) || changed
			continue
		}
		if !ArrowpointAllowed(g, p.a, p.b) || !ArrowpointAllowed(g, p.c, p.b) {
			continue
		}
		changed = g.SetEndpoint(p.a, p.b, pag.Arrow) || changed
		changed = g.SetEndpoint(p.c, p.b, pag.Arrow) || changed
	}
	return changed
}

// discriminatingBranches finds the first discriminating path in g and
// returns the graphs it splits into: a copy with b a non-collider, and a
// copy with b a collider unless some ledger separates l and c with b or the
// arrowheads are not allowed.
func (o *Orienter) discriminatingBranches(g *pag.Graph) ([]*pag.Graph, bool) {
	var p ddp
	found := false
	candidates(g, func(a, b, c string) bool {
		if l, ok := o.findEnd(g, a, b, c, false); ok {
			p = ddp{l: l, a: a, b: b, c: c}
			found = true
			return false
		}
		return true
	})
	if !found {
		return nil, false
	}

	noncollider := g.Clone()
	noncollider.SetEndpoint(p.c, p.b, pag.Tail)
	branches := []*pag.Graph{noncollider}

	if o.separatedBy(p.l, p.c, p.b) {
		return branches, true
	}
	if !ArrowpointAllowed(g, p.a, p.b) || !ArrowpointAllowed(g, p.c, p.b) {
		return branches, true
	}
	collider := g.Clone()
	collider.SetEndpoint(p.a, p.b, pag.Arrow)
	collider.SetEndpoint(p.c, p.b, pag.Arrow)
	return append(branches, collider), true
}
