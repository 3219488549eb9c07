package search

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dci/pkg/observability"
	"github.com/matzehuels/dci/pkg/orient"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/trek"
)

// run holds the state of one [Search.Run]. Everything in it is fixed after
// prepare; branches carry their own graphs.
type run struct {
	s        *Search
	models   []LocalModel
	logger   *log.Logger
	orienter *orient.Orienter

	graph        *pag.Graph
	triples      []pag.Triple
	noncolliders map[pag.Triple]bool
	definite     map[pag.Triple]bool
	necessary    []trek.Necessary

	out graphSet
}

func newRun(s *Search, models []LocalModel) *run {
	return &run{
		s:            s,
		models:       models,
		logger:       s.logger,
		noncolliders: map[pag.Triple]bool{},
		definite:     map[pag.Triple]bool{},
		out:          graphSet{},
		orienter: orient.New(orientModels(models), orient.Options{
			CompleteRuleSet: s.opts.CompleteRuleSet,
			Logger:          s.logger,
		}),
	}
}

// prepare builds the initial graph and the necessary treks.
func (r *run) prepare(ctx context.Context) error {
	g, err := pag.New(r.s.variables...)
	if err != nil {
		return err
	}
	g.FullyConnect(pag.Circle)
	for _, p := range g.Pairs() {
		for _, m := range r.models {
			if m.Ledger.Has(p.A, p.B) {
				g.RemoveEdge(p.A, p.B)
				break
			}
		}
	}
	for _, t := range r.orienter.OrientColliders(g) {
		r.noncolliders[t] = true
	}
	r.orienter.InitialPass(g)

	r.triples = g.Triples()
	for _, t := range r.triples {
		if g.IsDefCollider(t.X, t.Y, t.Z) {
			r.definite[t] = true
		}
	}
	r.graph = g
	r.logger.Debug("initial graph", "edges", g.EdgeCount(), "colliders", len(r.definite),
		"noncolliders", len(r.noncolliders))

	r.necessary, err = trek.Ensure(ctx, g, marginals(r.models), r.s.opts.Workers, r.s.opts.MaxTrekLength)
	if err != nil {
		return err
	}
	r.logger.Debug("necessary treks", "count", len(r.necessary))
	return nil
}

// enumerate walks every possible skeleton and its collider sets.
func (r *run) enumerate(ctx context.Context) error {
	skels, err := r.skeletons(ctx)
	if err != nil {
		return err
	}
	r.s.stats.Skeletons = len(skels)
	hooks := observability.Search()

	for i, sk := range skels {
		if err := ctx.Err(); err != nil {
			return err
		}
		hooks.OnSkeleton(ctx, i+1, len(skels), len(sk.removed))
		r.logger.Debug("skeleton", "index", i+1, "of", len(skels), "removed", len(sk.removed),
			"collider_sets", len(sk.colliderSets))

		base := r.graph.Clone()
		base.RemoveEdges(sk.removed)
		if len(sk.colliderSets) == 0 {
			if err := r.colliders(ctx, &branch{graph: base, removed: sk.removed}); err != nil {
				return err
			}
			continue
		}
		for _, cm := range sk.colliderSets {
			for _, g := range orientRequired(base, cm) {
				if err := r.colliders(ctx, &branch{graph: g, removed: sk.removed, required: cm}); err != nil {
					return err
				}
			}
		}
		r.s.sampleMemory()
	}
	return nil
}

// output returns the accepted graphs sorted by canonical key.
func (r *run) output() []*pag.Graph {
	return r.out.sorted()
}

// graphSet holds accepted graphs by canonical key. Equal graphs share a
// key, so adding one twice keeps a single copy.
type graphSet map[string]*pag.Graph

func (s graphSet) add(g *pag.Graph) {
	s[g.Key()] = g
}

func (s graphSet) sorted() []*pag.Graph {
	out := make([]*pag.Graph, 0, len(s))
	for _, g := range s {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *pag.Graph) int { return strings.Compare(a.Key(), b.Key()) })
	return out
}

// colliderMap maps a required collider to its alternative ancestral paths.
type colliderMap map[pag.Triple][][]string

func (cm colliderMap) triples() []pag.Triple {
	out := make([]pag.Triple, 0, len(cm))
	for t := range cm {
		out = append(out, t)
	}
	slices.SortFunc(out, pag.CompareTriples)
	return out
}

func (cm colliderMap) key() string {
	var b strings.Builder
	for _, t := range cm.triples() {
		b.WriteString(t.String())
		for _, p := range cm[t] {
			b.WriteByte('[')
			b.WriteString(strings.Join(p, ","))
			b.WriteByte(']')
		}
		b.WriteByte('|')
	}
	return b.String()
}

// filterAncestral drops ancestral paths that use a removed edge. It fails
// when some collider is left without a path.
func filterAncestral(cols map[pag.Triple][][]string, removed map[pag.Pair]struct{}) (colliderMap, bool) {
	out := make(colliderMap, len(cols))
	for t, paths := range cols {
		var kept [][]string
		for _, p := range paths {
			if !trek.EdgesOf(p).Intersects(removed) {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return nil, false
		}
		out[t] = kept
	}
	return out, true
}

// hasBoth reports whether edges contains both edges of t.
func hasBoth(edges trek.EdgeSet, t pag.Triple) bool {
	xy, yz := t.Edges()
	return edges.Has(xy) && edges.Has(yz)
}
