package search

import (
	"github.com/matzehuels/dci/pkg/pag"
)

// accept orients the colliders of subset on a copy of the branch graph,
// runs the final orientation and keeps every resulting graph that passes
// the consistency checks.
func (r *run) accept(b *branch, subset []pag.Triple, set map[pag.Triple]bool, rejected []map[pag.Triple]bool) {
	g := b.graph.Clone()
	for _, t := range subset {
		g.SetEndpoint(t.X, t.Y, pag.Arrow)
		g.SetEndpoint(t.Z, t.Y, pag.Arrow)
	}

	for _, h := range r.orienter.Final(g) {
		switch {
		case r.predictsFalseDependence(h):
			continue
		case r.predictsFalseIndependence(h):
			continue
		case r.violatesNoncolliders(h):
			continue
		case !r.extraCollidersHold(b, h, set, rejected):
			continue
		case h.ExistsDirectedCycle():
			continue
		}
		h.ClearUnderlines()
		r.out.add(h)
	}
}

// predictsFalseDependence reports whether h d-connects a pair under a
// conditioning set some ledger records as separating.
func (r *run) predictsFalseDependence(h *pag.Graph) bool {
	for _, m := range r.models {
		for _, p := range m.Ledger.Pairs() {
			for _, z := range m.Ledger.Sets(p.A, p.B) {
				if !h.IsDSeparated(p.A, p.B, z) {
					return true
				}
			}
		}
	}
	return false
}

// predictsFalseIndependence reports whether h d-separates a recorded
// association.
func (r *run) predictsFalseIndependence(h *pag.Graph) bool {
	for _, m := range r.models {
		for _, a := range m.Associations {
			if h.IsDSeparated(a.X, a.Y, a.Z) {
				return true
			}
		}
	}
	return false
}

// violatesNoncolliders reports whether an underlined triple ended up as a
// collider.
func (r *run) violatesNoncolliders(h *pag.Graph) bool {
	for t := range r.noncolliders {
		if h.IsDefCollider(t.X, t.Y, t.Z) {
			return true
		}
	}
	for _, t := range h.Underlines() {
		if h.IsDefCollider(t.X, t.Y, t.Z) {
			return true
		}
	}
	return false
}

// extraCollidersHold checks the colliders orientation created beyond the
// initial ones and set: together with set they must still leave every
// trek a witness.
func (r *run) extraCollidersHold(b *branch, h *pag.Graph, set map[pag.Triple]bool, rejected []map[pag.Triple]bool) bool {
	var extra map[pag.Triple]bool
	for _, t := range r.triples {
		if r.definite[t] || set[t] || !h.IsDefCollider(t.X, t.Y, t.Z) {
			continue
		}
		if extra == nil {
			extra = make(map[pag.Triple]bool, len(set)+1)
			for s := range set {
				extra[s] = true
			}
		}
		extra[t] = true
	}
	if extra == nil {
		return true
	}
	if !r.s.opts.Exhaustive && containsAny(extra, rejected) {
		return false
	}
	return b.check(extra)
}
