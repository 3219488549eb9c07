package orient

import (
	"slices"

	"github.com/matzehuels/dci/pkg/combin"
	"github.com/matzehuels/dci/pkg/pag"
)

// OrientColliders applies R0 once per model over that model's variables.
// For every triple a - b - c inside the model with a and c separated, b is
// oriented as a collider when it is absent from the separating sets and
// underlined otherwise. The underlined triples are returned.
func (o *Orienter) OrientColliders(g *pag.Graph) []pag.Triple {
	var noncolliders []pag.Triple
	for k, m := range o.models {
		if m.Ledger == nil {
			continue
		}
		vars := m.Variables
		if len(vars) == 0 {
			vars = g.Nodes()
		}
		marginal := o.marginals[k]
		for _, b := range vars {
			var adj []string
			for _, n := range g.Adjacent(b) {
				if marginal == nil || marginal[n] {
					adj = append(adj, n)
				}
			}
			for idx := range combin.Choose(len(adj), 2) {
				a, c := adj[idx[0]], adj[idx[1]]
				sep, ok := m.Ledger.Get(a, c)
				if !ok {
					continue
				}
				if _, found := slices.BinarySearch(sep, b); found {
					g.AddUnderline(a, b, c)
					noncolliders = append(noncolliders, pag.NewTriple(a, b, c))
					continue
				}
				if !ArrowpointAllowed(g, a, b) || !ArrowpointAllowed(g, c, b) {
					continue
				}
				g.SetEndpoint(a, b, pag.Arrow)
				g.SetEndpoint(c, b, pag.Arrow)
				o.logger.Debug("collider", "triple", pag.NewTriple(a, b, c))
			}
		}
	}
	return noncolliders
}
