// Package callgraphsource adapts internal/callgraph's string-keyed call
// graphs into the dense int64-addressed tuples the CSR importer expects
// (spec.md §4.1/§4.2), so profiling call graphs can be analyzed by the
// same graph store and Pregel runtime as any other relationship source.
package callgraphsource

import (
	"github.com/csrgraph/graphctl/internal/callgraph"
	"github.com/csrgraph/graphctl/pkg/csr"
)

// NodeIds assigns a stable, dense int64 original id to every call graph
// node, in the order it appears in CallGraph.Nodes.
type NodeIds struct {
	ids   map[string]int64
	names []string
}

// AssignNodeIds builds the id assignment for cg.
func AssignNodeIds(cg *callgraph.CallGraph) *NodeIds {
	ids := make(map[string]int64, len(cg.Nodes))
	names := make([]string, len(cg.Nodes))
	for i, n := range cg.Nodes {
		ids[n.ID] = int64(i)
		names[i] = n.ID
	}
	return &NodeIds{ids: ids, names: names}
}

// OriginalID returns the assigned id for a call graph node id, if known.
func (n *NodeIds) OriginalID(nodeID string) (int64, bool) {
	v, ok := n.ids[nodeID]
	return v, ok
}

// Count returns the number of assigned ids.
func (n *NodeIds) Count() int64 { return int64(len(n.names)) }

// NodeIDAt returns the call graph node id assigned to original.
func (n *NodeIds) NodeIDAt(original int64) string { return n.names[original] }

// RelationshipTuples converts every call graph edge into a RawTuple
// carrying weight and call count as positional properties ("weight",
// "count"). Edges referencing a node absent from ids are skipped, since
// AssignNodeIds is expected to have been built from the same CallGraph.
func RelationshipTuples(cg *callgraph.CallGraph, ids *NodeIds) []csr.RawTuple {
	tuples := make([]csr.RawTuple, 0, len(cg.Edges))
	for _, e := range cg.Edges {
		src, ok := ids.OriginalID(e.Source)
		if !ok {
			continue
		}
		dst, ok := ids.OriginalID(e.Target)
		if !ok {
			continue
		}
		tuples = append(tuples, csr.RawTuple{
			SourceOriginal: src,
			TargetOriginal: dst,
			Properties:     []float64{e.Weight, float64(e.Count)},
		})
	}
	return tuples
}

// PropertyAggregations is the weight/count aggregation pair every
// callgraphsource-backed import should declare.
func PropertyAggregations() []csr.PropertyAggregation {
	return []csr.PropertyAggregation{
		{Key: "weight", Aggregation: csr.AggregationSum},
		{Key: "count", Aggregation: csr.AggregationSum},
	}
}
