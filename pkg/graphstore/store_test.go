package graphstore

import (
	"testing"

	"github.com/csrgraph/graphctl/pkg/csr"
	"github.com/csrgraph/graphctl/pkg/gdsvalue"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestStore(t *testing.T) *GraphStore {
	t.Helper()
	root := idmap.NewLabeledIdMap(3)
	for i := int64(0); i < 3; i++ {
		root.Add(i)
	}

	imp := csr.NewImporter(csr.ImportConfig{
		Type:                 "KNOWS",
		PropertyAggregations: []csr.PropertyAggregation{{Key: "weight", Aggregation: csr.AggregationSum}},
	}, root)
	require.NoError(t, imp.AddBatch([]csr.RawTuple{
		{SourceOriginal: 0, TargetOriginal: 1, Properties: []float64{1.5}},
		{SourceOriginal: 1, TargetOriginal: 2, Properties: []float64{2.5}},
	}))
	rel, err := imp.Build(3)
	require.NoError(t, err)

	store, err := NewBuilder().
		DatabaseInfo(DatabaseInfo{Name: "test"}).
		Capabilities(Capabilities{}).
		Schema(properties.NewGraphSchema()).
		Nodes(root).
		Concurrency(2).
		RelationshipImportResult(rel).
		Build()
	require.NoError(t, err)
	return store
}

func TestBuilderFailsOnMissingFields(t *testing.T) {
	_, err := NewBuilder().Build()
	assert.Error(t, err)
}

func TestBuilderBuildsFromValidInputs(t *testing.T) {
	store := buildTestStore(t)
	assert.EqualValues(t, 3, store.NodeCount())
	assert.True(t, store.HasRelationshipType("KNOWS"))
	assert.EqualValues(t, 2, store.RelationshipCount("KNOWS"))
	assert.True(t, store.HasRelationshipProperty("KNOWS", "weight"))
}

func TestMutationsBumpModificationTime(t *testing.T) {
	store := buildTestStore(t)
	before := store.ModificationTime()

	col := properties.NewDoubleColumn([]float64{1, 2, 3})
	schema := properties.PropertySchema{Key: "rank", ValueType: gdsvalue.Double}
	require.NoError(t, store.AddNodeProperty(schema, col))

	after := store.ModificationTime()
	assert.True(t, after.After(before) || after.Equal(before))

	_, ok := store.NodeProperty("rank")
	assert.True(t, ok)
}

func TestDeleteRelationshipsReturnsCounts(t *testing.T) {
	store := buildTestStore(t)
	result, err := store.DeleteRelationships("KNOWS")
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.DeletedRelationships)
	assert.False(t, store.HasRelationshipType("KNOWS"))

	_, err = store.DeleteRelationships("KNOWS")
	assert.Error(t, err, "deleting an already-gone type must fail")
}

func TestGetGraphDegreeAndIteration(t *testing.T) {
	store := buildTestStore(t)
	g, err := store.GetUnion()
	require.NoError(t, err)

	assert.EqualValues(t, 1, g.Degree(0))
	assert.EqualValues(t, 1, g.Degree(1))
	assert.EqualValues(t, 0, g.Degree(2))

	var targets []int64
	g.ForEachRelationship(0, func(target int64) bool {
		targets = append(targets, target)
		return true
	})
	assert.Equal(t, []int64{1}, targets)
}

func TestGetGraphWithBoundPropertyWeightedIteration(t *testing.T) {
	store := buildTestStore(t)
	g, err := store.GetGraph(nil, []string{"KNOWS"}, "weight")
	require.NoError(t, err)

	var weights []float64
	g.ForEachRelationshipWeighted(0, 0, func(target int64, weight float64) bool {
		weights = append(weights, weight)
		return true
	})
	assert.Equal(t, []float64{1.5}, weights)
}

func TestConcurrentCopyIsIndependentValue(t *testing.T) {
	store := buildTestStore(t)
	g, err := store.GetUnion()
	require.NoError(t, err)
	cp := g.ConcurrentCopy()
	assert.Equal(t, g.NodeCount(), cp.NodeCount())
}
