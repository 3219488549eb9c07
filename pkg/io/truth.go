package io

import (
	"github.com/matzehuels/dci/pkg/adjacency"
	errs "github.com/matzehuels/dci/pkg/errors"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/search"
	"github.com/matzehuels/dci/pkg/sepset"
)

// Ledger modes for [TruthSpec].
const (
	LedgerOracle  = "oracle"
	LedgerClosure = "closure"
)

// TruthSpec is a reference graph local models can take their evidence
// from.
type TruthSpec struct {
	// Nodes lists variables in addition to those on Edges.
	Nodes  []string `toml:"nodes" yaml:"nodes" json:"nodes,omitempty"`
	Edges  []string `toml:"edges" yaml:"edges" json:"edges"`
	Ledger string   `toml:"ledger" yaml:"ledger" json:"ledger,omitempty"`
}

// Graph builds the reference graph over its nodes, its edge endpoints and
// extra.
func (t *TruthSpec) Graph(extra ...string) (*pag.Graph, error) {
	edges := make([]pag.Edge, len(t.Edges))
	for i, s := range t.Edges {
		e, err := pag.ParseEdge(s)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidModel, err, "truth")
		}
		edges[i] = e
	}

	g, err := pag.New()
	if err != nil {
		return nil, err
	}
	add := func(n string) error {
		if g.HasNode(n) {
			return nil
		}
		if err := errs.ValidateVariableName(n); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidModel, err, "truth")
		}
		return g.AddNode(n)
	}
	for _, n := range t.Nodes {
		if err := add(n); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := add(e.X); err != nil {
			return nil, err
		}
		if err := add(e.Y); err != nil {
			return nil, err
		}
	}
	for _, n := range extra {
		if err := add(n); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e.X, e.Y, e.AtX, e.AtY); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidModel, err, "truth edge %s", e)
		}
	}
	return g, nil
}

type truthSource struct {
	graph  *pag.Graph
	ledger *sepset.Map
}

func (t *TruthSpec) source(models []ModelSpec) (*truthSource, error) {
	var vars []string
	for _, m := range models {
		vars = append(vars, m.Variables...)
	}
	g, err := t.Graph(vars...)
	if err != nil {
		return nil, err
	}
	src := &truthSource{graph: g}
	switch t.Ledger {
	case "", LedgerOracle:
	case LedgerClosure:
		src.ledger = sepset.New()
		src.ledger.Closure(g)
	default:
		return nil, errs.New(errs.ErrCodeInvalidModel, "truth: unknown ledger mode %q", t.Ledger)
	}
	return src, nil
}

func (s *truthSource) apply(m *search.LocalModel) {
	if s.ledger != nil {
		m.Ledger = s.ledger.Restrict(m.Variables)
		return
	}
	m.Oracle = adjacency.DSepOracle{Graph: s.graph}
}
