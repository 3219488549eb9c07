package adjacency

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dci/pkg/combin"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/sepset"
)

// Unlimited lifts the bound on conditioning set size.
const Unlimited = -1

// Association records that x and y were found dependent given Z.
type Association struct {
	X, Y string
	Z    []string
}

// Options configures [Search].
type Options struct {
	// Depth bounds the size of conditioning sets. Unlimited (-1) tests
	// sets of every size.
	Depth int

	// Logger receives debug output. Defaults to a discard logger.
	Logger *log.Logger
}

// Result is the local model an adjacency search produces.
type Result struct {
	Variables    []string
	Skeleton     *pag.Graph
	Ledger       *sepset.Map
	Associations []Association
	Tests        int
}

// Search runs a PC-style adjacency search over variables.
//
// Starting from the complete graph with circle marks, it removes the edge
// between x and y as soon as some subset of x's other neighbours renders
// them independent, recording that subset in the ledger. Conditioning sets
// grow one element per round until no node has enough neighbours left or
// Depth is reached. Every dependent answer is kept as an association.
//
// The oracle is wrapped with [Safe]; only context cancellation aborts the
// search.
func Search(ctx context.Context, variables []string, oracle Oracle, opts Options) (*Result, error) {
	if opts.Depth < Unlimited {
		return nil, fmt.Errorf("depth must be -1 or >= 0, got %d", opts.Depth)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	g, err := pag.New(variables...)
	if err != nil {
		return nil, err
	}
	g.FullyConnect(pag.Circle)

	res := &Result{
		Variables: slices.Clone(variables),
		Skeleton:  g,
		Ledger:    sepset.New(),
	}
	oracle = Safe(oracle, logger)
	nodes := g.Nodes()

	for depth := 0; opts.Depth == Unlimited || depth <= opts.Depth; depth++ {
		more := false
		for _, x := range nodes {
			for _, y := range slices.Clone(g.Adjacent(x)) {
				if !g.IsAdjacent(x, y) {
					continue
				}
				cands := slices.DeleteFunc(slices.Clone(g.Adjacent(x)), func(n string) bool { return n == y })
				if len(cands) < depth {
					continue
				}
				if len(cands) > depth {
					more = true
				}
				removed, err := res.testPair(ctx, oracle, x, y, cands, depth)
				if err != nil {
					return nil, err
				}
				if removed {
					g.RemoveEdge(x, y)
				}
			}
		}
		logger.Debug("adjacency round", "depth", depth, "edges", g.EdgeCount(), "tests", res.Tests)
		if !more {
			break
		}
	}
	return res, nil
}

func (r *Result) testPair(ctx context.Context, oracle Oracle, x, y string, cands []string, depth int) (bool, error) {
	for idx := range combin.Choose(len(cands), depth) {
		z := combin.Select(cands, idx)
		r.Tests++
		indep, err := oracle.Independent(ctx, x, y, z)
		if err != nil {
			return false, err
		}
		if indep {
			r.Ledger.Add(x, y, z)
			return true, nil
		}
		r.Associations = append(r.Associations, Association{X: x, Y: y, Z: z})
	}
	return false, nil
}
