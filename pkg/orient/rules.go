package orient

import (
	"github.com/matzehuels/dci/pkg/combin"
	"github.com/matzehuels/dci/pkg/pag"
)

// doubleTriangle applies R3: if D *-o B, A *-> B <-* C and A *-* D *-* C is
// not a collider, then D *-> B. When restricted, A, B, C and A, D, C must
// each be measured jointly.
func (o *Orienter) doubleTriangle(g *pag.Graph, restricted bool) bool {
	changed := false
	for _, b := range g.Nodes() {
		arrows := g.NodesInTo(b, pag.Arrow)
		circles := g.NodesInTo(b, pag.Circle)
		for _, d := range circles {
			for _, a := range arrows {
				for _, c := range arrows {
					if a == c {
						continue
					}
					if !g.IsAdjacent(a, d) || !g.IsAdjacent(c, d) {
						continue
					}
					if g.IsDefCollider(a, d, c) {
						continue
					}
					if restricted && !(o.jointly(a, b, c) && o.jointly(a, d, c)) {
						continue
					}
					if !ArrowpointAllowed(g, d, b) {
						continue
					}
					if g.SetEndpoint(d, b, pag.Arrow) {
						changed = true
					}
				}
			}
		}
	}
	return changed
}

// awayFromColliderAncestorCycle applies R1, R2 and the cycle rule to every
// triple in one sweep. When restricted, R1 only fires on jointly measured
// triples.
func (o *Orienter) awayFromColliderAncestorCycle(g *pag.Graph, restricted bool) bool {
	changed := false
	for _, b := range g.Nodes() {
		adj := g.Adjacent(b)
		for idx := range combin.Choose(len(adj), 2) {
			a, c := adj[idx[0]], adj[idx[1]]
			if !restricted || o.jointly(a, b, c) {
				changed = awayFromCollider(g, a, b, c) || changed
				changed = awayFromCollider(g, c, b, a) || changed
			}
			changed = awayFromAncestor(g, a, b, c) || changed
			changed = awayFromAncestor(g, c, b, a) || changed
			changed = awayFromCycle(g, a, b, c) || changed
			changed = awayFromCycle(g, c, b, a) || changed
		}
	}
	return changed
}

// awayFromCollider is R1: if a *-> b o-* c with a and c non-adjacent, then
// b *-> c, and a circle at b becomes a tail.
func awayFromCollider(g *pag.Graph, a, b, c string) bool {
	if g.IsAdjacent(a, c) || g.Endpoint(a, b) != pag.Arrow {
		return false
	}
	atC, atB := g.Endpoint(b, c), g.Endpoint(c, b)
	changed := false
	if (atB == pag.Circle || atB == pag.Tail) && atC == pag.Circle {
		if !ArrowpointAllowed(g, b, c) {
			return false
		}
		changed = g.SetEndpoint(b, c, pag.Arrow)
	}
	if (atC == pag.Circle || atC == pag.Arrow) && atB == pag.Circle {
		changed = g.SetEndpoint(c, b, pag.Tail) || changed
	}
	return changed
}

// awayFromAncestor is R2: if a *-o c and either a --> b *-> c or
// a *-> b --> c, then a *-> c.
func awayFromAncestor(g *pag.Graph, a, b, c string) bool {
	if g.Endpoint(a, c) != pag.Circle {
		return false
	}
	if g.Endpoint(a, b) != pag.Arrow || g.Endpoint(b, c) != pag.Arrow {
		return false
	}
	if g.Endpoint(b, a) != pag.Tail && g.Endpoint(c, b) != pag.Tail {
		return false
	}
	if !ArrowpointAllowed(g, a, c) {
		return false
	}
	return g.SetEndpoint(a, c, pag.Arrow)
}

// awayFromCycle orients a o-> c as a --> c when a --> b --> c.
func awayFromCycle(g *pag.Graph, a, b, c string) bool {
	if g.Endpoint(a, c) != pag.Arrow || g.Endpoint(c, a) != pag.Circle {
		return false
	}
	if !g.IsDirectedFromTo(a, b) || !g.IsDirectedFromTo(b, c) {
		return false
	}
	return g.SetEndpoint(c, a, pag.Tail)
}
