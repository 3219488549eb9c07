// Package adjacency provides independence oracles and the adjacency search
// that turns an oracle into a local model: a skeleton over the oracle's
// variables, the separating sets that removed each missing edge, and the
// dependencies observed along the way.
package adjacency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/sepset"
)

// ErrUnknownVariable is returned by oracles asked about a variable they
// do not cover.
var ErrUnknownVariable = errors.New("unknown variable")

// Oracle answers conditional independence queries.
type Oracle interface {
	// Independent reports whether x and y are independent given z.
	Independent(ctx context.Context, x, y string, z []string) (bool, error)
}

// OracleFunc adapts a function to [Oracle].
type OracleFunc func(ctx context.Context, x, y string, z []string) (bool, error)

// Independent calls f.
func (f OracleFunc) Independent(ctx context.Context, x, y string, z []string) (bool, error) {
	return f(ctx, x, y, z)
}

// Safe wraps o so that a failing query reads as dependent. Errors and
// panics are logged at warn level and never reach the caller, except
// context cancellation which is returned as is.
func Safe(o Oracle, logger *log.Logger) Oracle {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return OracleFunc(func(ctx context.Context, x, y string, z []string) (indep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("independence query panicked", "x", x, "y", y, "z", z, "panic", r)
				indep, err = false, nil
			}
		}()
		indep, err = o.Independent(ctx, x, y, z)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			logger.Warn("independence query failed", "x", x, "y", y, "z", z, "err", err)
			return false, nil
		}
		return indep, nil
	})
}

// DSepOracle answers queries by d-separation in a reference graph.
type DSepOracle struct {
	Graph *pag.Graph
}

// Independent reports whether x and y are d-separated by z in the graph.
func (o DSepOracle) Independent(ctx context.Context, x, y string, z []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, n := range append([]string{x, y}, z...) {
		if !o.Graph.HasNode(n) {
			return false, fmt.Errorf("d-separation query: %w: %q", ErrUnknownVariable, n)
		}
	}
	return o.Graph.IsDSeparated(x, y, z), nil
}

// LedgerOracle replays a separation ledger: x and y are independent given
// z exactly when the ledger records z as a separating set of the pair.
type LedgerOracle struct {
	Ledger *sepset.Map
}

// Independent looks z up among the recorded sets of the pair.
func (o LedgerOracle) Independent(ctx context.Context, x, y string, z []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	want := slices.Clone(z)
	slices.Sort(want)
	want = slices.Compact(want)
	for _, s := range o.Ledger.Sets(x, y) {
		if slices.Equal(s, want) {
			return true, nil
		}
	}
	return false, nil
}
