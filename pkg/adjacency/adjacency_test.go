package adjacency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/sepset"
)

func dag(t *testing.T, nodes []string, edges ...[2]string) *pag.Graph {
	t.Helper()
	g, err := pag.New(nodes...)
	require.NoError(t, err)
	for _, e := range edges {
		require.NoError(t, g.AddDirectedEdge(e[0], e[1]))
	}
	return g
}

func TestSearchChain(t *testing.T) {
	truth := dag(t, []string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"B", "C"})
	res, err := Search(context.Background(), truth.Nodes(), DSepOracle{Graph: truth}, Options{Depth: Unlimited})
	require.NoError(t, err)

	assert.True(t, res.Skeleton.IsAdjacent("A", "B"))
	assert.True(t, res.Skeleton.IsAdjacent("B", "C"))
	assert.False(t, res.Skeleton.IsAdjacent("A", "C"))
	assert.Equal(t, [][]string{{"B"}}, res.Ledger.Sets("A", "C"))
	assert.Equal(t, pag.Circle, res.Skeleton.Endpoint("A", "B"))
	assert.Contains(t, res.Associations, Association{X: "A", Y: "C", Z: []string{}})
	assert.Positive(t, res.Tests)
}

func TestSearchCollider(t *testing.T) {
	truth := dag(t, []string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"C", "B"})
	res, err := Search(context.Background(), truth.Nodes(), DSepOracle{Graph: truth}, Options{Depth: Unlimited})
	require.NoError(t, err)

	assert.False(t, res.Skeleton.IsAdjacent("A", "C"))
	z, ok := res.Ledger.Get("A", "C")
	require.True(t, ok)
	assert.Empty(t, z)
}

func TestSearchDepthBound(t *testing.T) {
	truth := dag(t, []string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"B", "C"})
	res, err := Search(context.Background(), truth.Nodes(), DSepOracle{Graph: truth}, Options{Depth: 0})
	require.NoError(t, err)
	assert.True(t, res.Skeleton.IsAdjacent("A", "C"))
	assert.Zero(t, res.Ledger.Len())
}

func TestSearchInvalidDepth(t *testing.T) {
	_, err := Search(context.Background(), []string{"A"}, DSepOracle{}, Options{Depth: -2})
	assert.Error(t, err)
}

func TestSearchDuplicateVariables(t *testing.T) {
	_, err := Search(context.Background(), []string{"A", "A"}, DSepOracle{}, Options{Depth: Unlimited})
	assert.ErrorIs(t, err, pag.ErrDuplicateNode)
}

func TestSearchCancelled(t *testing.T) {
	truth := dag(t, []string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"B", "C"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search(ctx, truth.Nodes(), DSepOracle{Graph: truth}, Options{Depth: Unlimited})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSafe(t *testing.T) {
	failing := OracleFunc(func(context.Context, string, string, []string) (bool, error) {
		return true, errors.New("singular matrix")
	})
	panicking := OracleFunc(func(context.Context, string, string, []string) (bool, error) {
		panic("boom")
	})
	ok := OracleFunc(func(context.Context, string, string, []string) (bool, error) {
		return true, nil
	})

	ctx := context.Background()
	for name, o := range map[string]Oracle{"error": failing, "panic": panicking} {
		t.Run(name, func(t *testing.T) {
			indep, err := Safe(o, nil).Independent(ctx, "X", "Y", nil)
			assert.NoError(t, err)
			assert.False(t, indep)
		})
	}

	indep, err := Safe(ok, nil).Independent(ctx, "X", "Y", nil)
	require.NoError(t, err)
	assert.True(t, indep)
}

func TestSafeKeepsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Safe(DSepOracle{Graph: dag(t, []string{"X", "Y"})}, nil).Independent(ctx, "X", "Y", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDSepOracleUnknownVariable(t *testing.T) {
	o := DSepOracle{Graph: dag(t, []string{"X", "Y"})}
	_, err := o.Independent(context.Background(), "X", "Q", nil)
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestLedgerOracle(t *testing.T) {
	m := sepset.New()
	m.Add("A", "C", []string{"B", "D"})
	m.Add("A", "C", nil)
	o := LedgerOracle{Ledger: m}
	ctx := context.Background()

	tests := []struct {
		x, y string
		z    []string
		want bool
	}{
		{"A", "C", []string{"D", "B"}, true},
		{"C", "A", nil, true},
		{"A", "C", []string{"B"}, false},
		{"A", "B", nil, false},
	}
	for _, tt := range tests {
		got, err := o.Independent(ctx, tt.x, tt.y, tt.z)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s,%s|%v", tt.x, tt.y, tt.z)
	}
}
