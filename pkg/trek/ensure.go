package trek

import (
	"context"
	"slices"

	"github.com/matzehuels/dci/pkg/pag"
)

// Witness is one way of realising a trek in the full graph.
//
// Path visits the trek's nodes in order; Edges is the set of edges it
// uses. Each conditioned node on Path must be a collider, and Colliders
// maps every such triple to the ancestral paths that would keep it open.
// An ancestral path starts at the collider's middle node and runs to one
// of the trek nodes it sits between, with no arrowhead pointing back
// towards the collider.
type Witness struct {
	Path      []string
	Edges     EdgeSet
	Colliders map[pag.Triple][][]string
}

// ColliderTriples returns the keys of Colliders in canonical order.
func (w Witness) ColliderTriples() []pag.Triple {
	out := make([]pag.Triple, 0, len(w.Colliders))
	for t := range w.Colliders {
		out = append(out, t)
	}
	slices.SortFunc(out, pag.CompareTriples)
	return out
}

// Necessary is a minimal spanning trek together with its witnesses.
type Necessary struct {
	Spanning
	Witnesses []Witness
}

// Ensure computes the minimal spanning treks of every marginal together
// with their witnesses.
func Ensure(ctx context.Context, g *pag.Graph, marginals [][]string, workers, maxLen int) ([]Necessary, error) {
	var out []Necessary
	for _, marginal := range marginals {
		spans, err := MinimalSpanning(ctx, g, marginal, workers, maxLen)
		if err != nil {
			return nil, err
		}
		for _, s := range spans {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out = append(out, Necessary{
				Spanning:  s,
				Witnesses: EnsuringPaths(g, s.Trek, s.Others, maxLen),
			})
		}
	}
	return out, nil
}

// EnsuringPaths returns the witnesses of trek given conditioning.
//
// A witness path runs from trek[0] through every trek node in order. Each
// segment between consecutive trek nodes is simple. A node on the path may
// be a definite collider only if it is conditioned on, and a conditioned
// node must be a collider candidate: neither adjacent edge may carry a
// tail at it, and the node after it must be a possible ancestor of the
// segment's target. A witness is kept only if every collider it needs has
// at least one ancestral path. Witnesses are unique by edge set; the first
// one found wins.
func EnsuringPaths(g *pag.Graph, trek, conditioning []string, maxLen int) []Witness {
	if len(trek) < 2 {
		return nil
	}
	e := &ensurer{
		g:         g,
		trek:      trek,
		cond:      make(map[string]bool, len(conditioning)),
		maxLen:    maxLen,
		path:      []string{trek[0]},
		colliders: map[pag.Triple][2]string{},
		seen:      map[string]bool{},
	}
	for _, n := range conditioning {
		e.cond[n] = true
	}
	e.extend(1, map[string]bool{trek[0]: true})
	return e.out
}

type ensurer struct {
	g      *pag.Graph
	trek   []string
	cond   map[string]bool
	maxLen int

	path      []string
	colliders map[pag.Triple][2]string
	seen      map[string]bool
	out       []Witness
}

func (e *ensurer) extend(index int, visited map[string]bool) {
	if index == len(e.trek) {
		e.record()
		return
	}
	g := e.g
	node1 := e.path[len(e.path)-1]
	node2 := e.trek[index]

	for _, next := range g.Adjacent(node1) {
		if len(e.path) > 1 {
			node0 := e.path[len(e.path)-2]
			if next != node0 && g.IsDefCollider(node0, node1, next) && !e.cond[node1] {
				continue
			}
		}
		if visited[next] {
			continue
		}

		if e.cond[node1] {
			node0 := e.path[len(e.path)-2]
			if g.Endpoint(node0, node1) == pag.Tail || g.Endpoint(next, node1) == pag.Tail {
				continue
			}
			if !g.IsPossibleAncestorOf(next, node2) {
				continue
			}
			e.colliders[pag.NewTriple(node0, node1, next)] = [2]string{node2, e.trek[index-1]}
		}

		e.path = append(e.path, next)
		visited[next] = true
		if next == node2 {
			e.extend(index+1, map[string]bool{node2: true})
		} else {
			e.extend(index, visited)
		}
		e.path = e.path[:len(e.path)-1]
		delete(visited, next)

		for t := range e.colliders {
			if t.Y == node1 {
				delete(e.colliders, t)
			}
		}
	}
}

func (e *ensurer) record() {
	colliders := make(map[pag.Triple][][]string, len(e.colliders))
	for t, targets := range e.colliders {
		var anc [][]string
		for _, target := range targets {
			for _, p := range Treks(e.g, t.Y, target, e.maxLen) {
				if !pointsBack(e.g, p) {
					anc = append(anc, p)
				}
			}
		}
		if len(anc) == 0 {
			return
		}
		colliders[t] = anc
	}

	edges := EdgesOf(e.path)
	key := edges.Key()
	if e.seen[key] {
		return
	}
	e.seen[key] = true
	e.out = append(e.out, Witness{
		Path:      slices.Clone(e.path),
		Edges:     edges,
		Colliders: colliders,
	})
}

// pointsBack reports whether some edge of p has an arrowhead at the end
// nearer p[0].
func pointsBack(g *pag.Graph, p []string) bool {
	for k := 0; k+1 < len(p); k++ {
		if g.Endpoint(p[k+1], p[k]) == pag.Arrow {
			return true
		}
	}
	return false
}
