package callgraphsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csrgraph/graphctl/internal/callgraph"
	"github.com/csrgraph/graphctl/pkg/csr"
	"github.com/csrgraph/graphctl/pkg/idmap"
)

func TestRelationshipTuplesRoundTripThroughImporter(t *testing.T) {
	cg := callgraph.NewCallGraph()
	cg.AddNode("main", "app", 0, 100)
	cg.AddNode("handler", "app", 20, 80)
	cg.AddEdge("main", "app", "handler", "app", 3)

	ids := AssignNodeIds(cg)
	require.EqualValues(t, 2, ids.Count())

	root := idmap.NewLabeledIdMap(int(ids.Count()))
	for i := int64(0); i < ids.Count(); i++ {
		root.Add(i)
	}

	importer := csr.NewImporter(csr.ImportConfig{
		Type:                 "CALLS",
		PropertyAggregations: PropertyAggregations(),
	}, root)
	require.NoError(t, importer.AddBatch(RelationshipTuples(cg, ids)))

	rel, err := importer.Build(ids.Count())
	require.NoError(t, err)
	assert.EqualValues(t, 1, rel.Forward.ElementCount)
}

func TestRelationshipTuplesSkipsUnknownNodes(t *testing.T) {
	cg := callgraph.NewCallGraph()
	cg.AddNode("a", "", 0, 1)
	ids := AssignNodeIds(cg)

	cg2 := callgraph.NewCallGraph()
	cg2.AddNode("a", "", 0, 1)
	cg2.AddNode("b", "", 0, 1)
	cg2.AddEdge("a", "", "b", "", 1)

	tuples := RelationshipTuples(cg2, ids)
	assert.Empty(t, tuples, "edges referencing ids absent from the assignment are skipped")
}
