package orient

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/sepset"
)

// Model is the part of a local model the rules need: the variables it
// measured and its separation ledger. An empty variable list means the
// model measured every node of the graph.
type Model struct {
	Variables []string
	Ledger    *sepset.Map
}

// Options configures an [Orienter].
type Options struct {
	// CompleteRuleSet enables rules R5 to R10.
	CompleteRuleSet bool

	// Logger receives debug output. Defaults to a discard logger.
	Logger *log.Logger
}

// Orienter applies the orientation rules against a fixed set of local
// models. It holds no per-graph state and can be reused across graphs, but
// not concurrently on the same graph.
type Orienter struct {
	models    []Model
	marginals []map[string]bool
	opts      Options
	logger    *log.Logger
}

// New creates an Orienter for the given models.
func New(models []Model, opts Options) *Orienter {
	o := &Orienter{models: models, opts: opts, logger: opts.Logger}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	for _, m := range models {
		if len(m.Variables) == 0 {
			o.marginals = append(o.marginals, nil)
			continue
		}
		set := make(map[string]bool, len(m.Variables))
		for _, v := range m.Variables {
			set[v] = true
		}
		o.marginals = append(o.marginals, set)
	}
	return o
}

// ArrowpointAllowed reports whether an arrowhead may be placed at to on the
// edge between from and to. Existing arrows and circles allow it; a tail or
// a missing edge does not.
func ArrowpointAllowed(g *pag.Graph, from, to string) bool {
	switch g.Endpoint(from, to) {
	case pag.Arrow, pag.Circle:
		return true
	}
	return false
}

// jointly reports whether some model measured every node.
func (o *Orienter) jointly(nodes ...string) bool {
	if len(o.marginals) == 0 {
		return true
	}
	for _, m := range o.marginals {
		if m == nil {
			return true
		}
		all := true
		for _, n := range nodes {
			if !m[n] {
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

// separatedBy reports whether b appears in a separating set of x and y in
// any ledger.
func (o *Orienter) separatedBy(x, y, b string) bool {
	return slices.ContainsFunc(o.models, func(m Model) bool {
		return m.Ledger != nil && m.Ledger.Contains(x, y, b)
	})
}

// InitialPass propagates the colliders found by [Orienter.OrientColliders]
// to a fixpoint, restricting R1, R3 and R4 to jointly measured nodes. It
// reports whether any mark changed.
func (o *Orienter) InitialPass(g *pag.Graph) bool {
	changed := false
	for {
		c1 := o.doubleTriangle(g, true)
		c2 := o.awayFromColliderAncestorCycle(g, true)
		c3 := o.discriminatingPaths(g, true)
		if !c1 && !c2 && !c3 {
			return changed
		}
		changed = true
	}
}

// Orient runs R1 to R4 to a fixpoint on g, resolving discriminating paths
// from the ledgers alone, and then the complete rule set if enabled. It
// reports whether any mark changed. Running it twice changes nothing the
// second time.
func (o *Orienter) Orient(g *pag.Graph) bool {
	changed := false
	for {
		c1 := o.doubleTriangle(g, false)
		c2 := o.awayFromColliderAncestorCycle(g, false)
		c3 := o.discriminatingPaths(g, false)
		if c1 || c2 || c3 {
			changed = true
			continue
		}
		if !o.opts.CompleteRuleSet || !o.completeRules(g) {
			return changed
		}
		changed = true
	}
}

// Final orients a copy of g to a fixpoint and returns every resulting
// graph. Discriminating paths branch: each one found replaces the graph by
// a non-collider copy and, unless the ledgers rule it out, a collider copy.
// g itself is not modified.
func (o *Orienter) Final(g *pag.Graph) []*pag.Graph {
	pending := []*pag.Graph{g.Clone()}
	var done []*pag.Graph
	for len(pending) > 0 {
		h := pending[0]
		pending = pending[1:]

		c1 := o.doubleTriangle(h, false)
		c2 := o.awayFromColliderAncestorCycle(h, false)
		if branches, ok := o.discriminatingBranches(h); ok {
			o.logger.Debug("discriminating path", "branches", len(branches))
			pending = append(pending, branches...)
			continue
		}
		if c1 || c2 {
			pending = append(pending, h)
			continue
		}
		if o.opts.CompleteRuleSet && o.completeRules(h) {
			pending = append(pending, h)
			continue
		}
		done = append(done, h)
	}
	return done
}
