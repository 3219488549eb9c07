package trek

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dci/pkg/pag"
)

// Spanning is a minimal spanning trek of a marginal. Others holds the
// marginal variables off the trek; the trek must stay open when they are
// conditioned on.
type Spanning struct {
	Trek   []string
	Others []string
}

// MinimalSpanning returns the minimal spanning treks of marginal in g.
//
// For an adjacent pair the edge itself is the trek. Otherwise every trek
// lying entirely inside the marginal is collected, and a longer trek is
// discarded when a shorter one for the same pair is an ordered subsequence
// of it. Finally, a trek that occurs as a contiguous piece of a longer
// retained trek is dropped. The result is sorted by length, then by node
// sequence.
//
// Pairs are processed by workers goroutines (at least one). Cancelling ctx
// stops the workers and returns ctx.Err() with no result.
func MinimalSpanning(ctx context.Context, g *pag.Graph, marginal []string, workers, maxLen int) ([]Spanning, error) {
	nodes := slices.Clone(marginal)
	slices.Sort(nodes)
	nodes = slices.Compact(nodes)
	inMarginal := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		inMarginal[n] = true
	}

	var pairs [][2]string
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			pairs = append(pairs, [2]string{nodes[i], nodes[j]})
		}
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	workers = max(1, min(workers, len(pairs)))

	var (
		mu   sync.Mutex
		next int
		all  = map[string]Spanning{}
	)
	claim := func() (int, bool) {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(pairs) {
			return 0, false
		}
		i := next
		next++
		return i, true
	}

	eg, ctx := errgroup.WithContext(ctx)
	for range workers {
		eg.Go(func() error {
			local := map[string]Spanning{}
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				i, ok := claim()
				if !ok {
					break
				}
				for _, s := range spanPair(g, pairs[i][0], pairs[i][1], nodes, inMarginal, maxLen) {
					local[pathKey(s.Trek)] = s
				}
			}
			mu.Lock()
			for k, s := range local {
				all[k] = s
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	collected := make([]Spanning, 0, len(all))
	for _, s := range all {
		collected = append(collected, s)
	}
	slices.SortFunc(collected, compareSpanning)

	var out []Spanning
	for _, s := range collected {
		covered := false
		for _, l := range collected {
			if len(l.Trek) > len(s.Trek) && IsSubpath(l.Trek, s.Trek) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, s)
		}
	}
	return out, nil
}

// spanPair computes the surviving treks of one marginal pair.
func spanPair(g *pag.Graph, x, y string, nodes []string, inMarginal map[string]bool, maxLen int) []Spanning {
	if g.IsAdjacent(x, y) {
		return []Spanning{{Trek: []string{x, y}, Others: others(nodes, []string{x, y})}}
	}

	var found []Spanning
	for _, t := range Treks(g, x, y, maxLen) {
		inside := true
		for _, n := range t {
			if !inMarginal[n] {
				inside = false
				break
			}
		}
		if inside {
			found = append(found, Spanning{Trek: t, Others: others(nodes, t)})
		}
	}
	slices.SortStableFunc(found, func(a, b Spanning) int { return cmp.Compare(len(a.Trek), len(b.Trek)) })

	var kept []Spanning
	for _, l := range found {
		redundant := false
		for _, k := range kept {
			if len(k.Trek) < len(l.Trek) && isSuperset(k.Others, l.Others) && IsSubtrek(l.Trek, k.Trek) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, l)
		}
	}
	return kept
}

func others(nodes, trek []string) []string {
	var out []string
	for _, n := range nodes {
		if !slices.Contains(trek, n) {
			out = append(out, n)
		}
	}
	return out
}

func isSuperset(big, small []string) bool {
	for _, n := range small {
		if !slices.Contains(big, n) {
			return false
		}
	}
	return true
}

func compareSpanning(a, b Spanning) int {
	if c := cmp.Compare(len(a.Trek), len(b.Trek)); c != 0 {
		return c
	}
	return slices.Compare(a.Trek, b.Trek)
}
