package search

import (
	"context"

	"github.com/matzehuels/dci/pkg/combin"
	"github.com/matzehuels/dci/pkg/orient"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/trek"
)

// branch is one skeleton with its required colliders oriented.
type branch struct {
	graph    *pag.Graph
	removed  map[pag.Pair]struct{}
	required colliderMap

	// witnesses holds, per necessary trek, the witnesses still usable on
	// this branch.
	witnesses [][]trek.Witness
}

// colliders enumerates sets of additional unshielded colliders on b and
// accepts the candidates they produce.
func (r *run) colliders(ctx context.Context, b *branch) error {
	b.witnesses = r.usableWitnesses(b)
	for _, ws := range b.witnesses {
		if len(ws) == 0 {
			return nil
		}
	}
	possible := r.possibleColliders(b)

	var rejected []map[pag.Triple]bool
	for subset := range combin.PowerSet(possible) {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.s.stats.Candidates++
		set := make(map[pag.Triple]bool, len(subset))
		for _, t := range subset {
			set[t] = true
		}
		if !r.s.opts.Exhaustive && containsAny(set, rejected) {
			r.s.stats.Pruned++
			continue
		}
		if !b.check(set) {
			rejected = append(rejected, set)
			continue
		}
		r.accept(b, subset, set, rejected)
	}
	return nil
}

// usableWitnesses drops witnesses that use a removed edge, that pass
// through a required collider they do not expect, or whose colliders lost
// every ancestral path.
func (r *run) usableWitnesses(b *branch) [][]trek.Witness {
	out := make([][]trek.Witness, len(r.necessary))
	for i, n := range r.necessary {
		for _, w := range n.Witnesses {
			if w.Edges.Intersects(b.removed) {
				continue
			}
			conflict := false
			for t := range b.required {
				if _, ok := w.Colliders[t]; !ok && hasBoth(w.Edges, t) {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			cols, ok := filterAncestral(w.Colliders, b.removed)
			if !ok {
				continue
			}
			out[i] = append(out[i], trek.Witness{Path: w.Path, Edges: w.Edges, Colliders: cols})
		}
	}
	return out
}

// possibleColliders lists the unshielded triples of b that could still
// become colliders, minus those some trek needs as non-colliders.
func (r *run) possibleColliders(b *branch) []pag.Triple {
	g := b.graph
	var out []pag.Triple
	for _, t := range r.triples {
		switch {
		case !g.IsAdjacent(t.X, t.Y) || !g.IsAdjacent(t.Y, t.Z) || g.IsAdjacent(t.X, t.Z):
		case r.noncolliders[t] || g.IsUnderline(t.X, t.Y, t.Z):
		case g.IsDefCollider(t.X, t.Y, t.Z):
		case !orient.ArrowpointAllowed(g, t.X, t.Y) || !orient.ArrowpointAllowed(g, t.Z, t.Y):
		case b.necessaryNoncollider(t):
		default:
			out = append(out, t)
		}
	}
	return out
}

// necessaryNoncollider reports whether making t a collider would block
// every witness of some trek: all of them pass through t without expecting
// a collider there, or the only witness has a collider whose only ancestral
// path runs through t.
func (b *branch) necessaryNoncollider(t pag.Triple) bool {
	for _, ws := range b.witnesses {
		all := true
		for _, w := range ws {
			if _, ok := w.Colliders[t]; ok || !hasBoth(w.Edges, t) {
				all = false
				break
			}
		}
		if all {
			return true
		}
		if len(ws) != 1 {
			continue
		}
		for _, paths := range ws[0].Colliders {
			if len(paths) == 1 && hasBoth(trek.EdgesOf(paths[0]), t) {
				return true
			}
		}
	}
	return false
}

// check reports whether every necessary trek keeps a witness that the
// colliders in set do not block. Adding colliders never unblocks a witness,
// so a failing set fails for all its supersets.
func (b *branch) check(set map[pag.Triple]bool) bool {
	for _, ws := range b.witnesses {
		open := false
		for _, w := range ws {
			if !blocked(w, set) {
				open = true
				break
			}
		}
		if !open {
			return false
		}
	}
	return true
}

// blocked reports whether set closes w: a collider of set lies on the path
// where w expects none, or some collider of w loses all its ancestral
// paths.
func blocked(w trek.Witness, set map[pag.Triple]bool) bool {
	for t := range set {
		if _, ok := w.Colliders[t]; !ok && hasBoth(w.Edges, t) {
			return true
		}
	}
	for _, paths := range w.Colliders {
		all := true
		for _, p := range paths {
			if !pathBlocked(p, set) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// pathBlocked reports whether an ancestral path cannot be directed once
// the colliders in set exist: it passes through one of them, or leaves a
// collider's middle node against an arrowhead.
func pathBlocked(p []string, set map[pag.Triple]bool) bool {
	if len(set) == 0 {
		return false
	}
	edges := trek.EdgesOf(p)
	for t := range set {
		if hasBoth(edges, t) {
			return true
		}
		for k := 0; k+1 < len(p); k++ {
			if p[k] == t.Y && (p[k+1] == t.X || p[k+1] == t.Z) {
				return true
			}
		}
	}
	return false
}
