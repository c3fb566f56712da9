package pregelalgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csrgraph/graphctl/pkg/csr"
	"github.com/csrgraph/graphctl/pkg/graphstore"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/pregel"
	"github.com/csrgraph/graphctl/pkg/properties"
)

// buildTriangleGraph builds the directed 3-cycle of spec.md §8 scenario 1:
// nodes {0,1,2}, edges 0->1->2->0, every vertex with out-degree 1.
func buildTriangleGraph(t *testing.T) *graphstore.Graph {
	t.Helper()
	root := idmap.NewLabeledIdMap(3)
	for i := int64(0); i < 3; i++ {
		root.Add(i)
	}

	imp := csr.NewImporter(csr.ImportConfig{Type: "LINKS"}, root)
	require.NoError(t, imp.AddBatch([]csr.RawTuple{
		{SourceOriginal: 0, TargetOriginal: 1},
		{SourceOriginal: 1, TargetOriginal: 2},
		{SourceOriginal: 2, TargetOriginal: 0},
	}))
	rel, err := imp.Build(3)
	require.NoError(t, err)

	store, err := graphstore.NewBuilder().
		DatabaseInfo(graphstore.DatabaseInfo{Name: "test"}).
		Capabilities(graphstore.Capabilities{}).
		Schema(properties.NewGraphSchema()).
		Nodes(root).
		Concurrency(2).
		RelationshipImportResult(rel).
		Build()
	require.NoError(t, err)

	g, err := store.GetUnion()
	require.NoError(t, err)
	return g
}

// TestCentralityUniformOnSymmetricTriangle matches spec.md §8 scenario 1:
// a symmetric triangle stays at rank 1/3 for every vertex regardless of
// how many supersteps run, since damping redistributes the exact same
// uniform mass every time.
func TestCentralityUniformOnSymmetricTriangle(t *testing.T) {
	g := buildTriangleGraph(t)
	p := pregel.New(g, Centrality{}, nil, pregel.Config{
		MessengerType: pregel.MessengerSync,
		MaxIterations: 20,
		Concurrency:   2,
	})

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.DidConverge)
	assert.Equal(t, 20, result.RanIterations)

	for v := int64(0); v < 3; v++ {
		got, err := result.NodeValues.DoubleValue(rankKey, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, got, 1e-9)
	}
}
