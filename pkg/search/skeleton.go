package search

import (
	"context"

	"github.com/matzehuels/dci/pkg/combin"
	"github.com/matzehuels/dci/pkg/orient"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/trek"
)

// skeleton is a set of removable edges together with the collider
// requirements of the witnesses that survive their removal.
type skeleton struct {
	removed      map[pag.Pair]struct{}
	colliderSets []colliderMap
}

// skeletons enumerates every subset of non-necessary edges whose removal
// leaves each necessary trek with a witness. Subsets come smallest first;
// supersets of a failing subset fail too and are skipped.
func (r *run) skeletons(ctx context.Context) ([]skeleton, error) {
	for _, n := range r.necessary {
		if len(n.Witnesses) == 0 {
			r.logger.Warn("trek has no witness", "trek", n.Trek, "others", n.Others)
			return nil, nil
		}
	}

	fixed := r.necessaryEdges()
	var removable []pag.Pair
	for _, p := range r.graph.Pairs() {
		if !fixed[p] {
			removable = append(removable, p)
		}
	}
	r.logger.Debug("edges", "necessary", len(fixed), "removable", len(removable))

	var (
		out      []skeleton
		rejected []map[pag.Pair]struct{}
	)
	for subset := range combin.PowerSet(removable) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		set := make(map[pag.Pair]struct{}, len(subset))
		for _, p := range subset {
			set[p] = struct{}{}
		}
		if containsAny(set, rejected) {
			continue
		}
		cs, ok := r.realisable(set)
		if !ok {
			rejected = append(rejected, set)
			continue
		}
		out = append(out, skeleton{removed: set, colliderSets: cs})
	}
	return out, nil
}

// necessaryEdges returns the edges that every witness of some trek needs,
// either on the path itself or on every ancestral path of one of its
// colliders.
func (r *run) necessaryEdges() map[pag.Pair]bool {
	fixed := map[pag.Pair]bool{}
	for _, p := range r.graph.Pairs() {
		for _, n := range r.necessary {
			all := true
			for _, w := range n.Witnesses {
				if !needs(w, p) {
					all = false
					break
				}
			}
			if all {
				fixed[p] = true
				break
			}
		}
	}
	return fixed
}

func needs(w trek.Witness, p pag.Pair) bool {
	if w.Edges.Has(p) {
		return true
	}
	for _, paths := range w.Colliders {
		all := true
		for _, anc := range paths {
			if !trek.EdgesOf(anc).Has(p) {
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

// realisable reports whether every necessary trek keeps a witness once the
// edges in removed are gone, and collects the collider requirements of the
// surviving witnesses. A trek with a collider-free witness contributes no
// requirement.
func (r *run) realisable(removed map[pag.Pair]struct{}) ([]colliderMap, bool) {
	var (
		out  []colliderMap
		seen = map[string]bool{}
	)
	for _, n := range r.necessary {
		okay := false
		var maps []colliderMap
		for _, w := range n.Witnesses {
			if w.Edges.Intersects(removed) {
				continue
			}
			if len(w.Colliders) == 0 {
				okay = true
				maps = nil
				break
			}
			cm, ok := filterAncestral(w.Colliders, removed)
			if !ok {
				continue
			}
			okay = true
			maps = append(maps, cm)
		}
		if !okay {
			return nil, false
		}
		for _, cm := range maps {
			if k := cm.key(); !seen[k] {
				seen[k] = true
				out = append(out, cm)
			}
		}
	}
	return out, true
}

// orientRequired orients the colliders of cm on a copy of base and then,
// for every choice of one ancestral path per collider, directs that path
// away from the collider. Choices that conflict with existing marks are
// dropped.
func orientRequired(base *pag.Graph, cm colliderMap) []*pag.Graph {
	g := base.Clone()
	triples := cm.triples()
	for _, t := range triples {
		if g.IsUnderline(t.X, t.Y, t.Z) ||
			!orient.ArrowpointAllowed(g, t.X, t.Y) || !orient.ArrowpointAllowed(g, t.Z, t.Y) {
			return nil
		}
		g.SetEndpoint(t.X, t.Y, pag.Arrow)
		g.SetEndpoint(t.Z, t.Y, pag.Arrow)
	}

	sizes := make([]int, len(triples))
	for i, t := range triples {
		sizes[i] = len(cm[t])
	}
	var out []*pag.Graph
	for idx := range combin.Product(sizes) {
		h := g.Clone()
		ok := true
		for i, t := range triples {
			if !directPath(h, cm[t][idx[i]]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, h)
		}
	}
	return out
}

// directPath orients p[0] --> p[1] --> ... on g.
func directPath(g *pag.Graph, p []string) bool {
	for k := 0; k+1 < len(p); k++ {
		a, b := p[k], p[k+1]
		if !orient.ArrowpointAllowed(g, a, b) || g.Endpoint(b, a) == pag.Arrow {
			return false
		}
		g.SetEndpoint(a, b, pag.Arrow)
		g.SetEndpoint(b, a, pag.Tail)
	}
	return true
}

// containsAny reports whether set is a superset of some member of sets.
func containsAny[K comparable, V any](set map[K]V, sets []map[K]V) bool {
	for _, s := range sets {
		if len(s) > len(set) {
			continue
		}
		all := true
		for k := range s {
			if _, ok := set[k]; !ok {
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
