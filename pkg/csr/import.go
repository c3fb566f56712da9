package csr

import (
	"fmt"
	"math"
	"sort"

	"github.com/csrgraph/graphctl/pkg/gdsvalue"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/properties"
)

// ignoreValue is the sentinel a duplicate's target id is overwritten with
// during pre-aggregation (spec.md §4.2 step 2); rows are compacted by
// eliding any entry that still carries it.
const ignoreValue = math.MinInt64

// PropertyAggregation names one relationship property column and the
// Aggregation function applied to duplicate (source, target) pairs.
type PropertyAggregation struct {
	Key         string
	Aggregation Aggregation
}

// ImportConfig parameterizes one relationship type's import.
type ImportConfig struct {
	Type                 RelationshipType
	Direction             properties.Direction
	PropertyAggregations []PropertyAggregation
	BuildInverse         bool
}

// RawTuple is one (source, target, properties) input record, addressed by
// original node id (spec.md §4.2).
type RawTuple struct {
	SourceOriginal int64
	TargetOriginal int64
	// Properties is positional, aligned with ImportConfig.PropertyAggregations.
	Properties []float64
}

type rawEdge struct {
	target int64
	props  []float64
}

// Importer accumulates batches of raw tuples for one relationship type and
// produces a compacted SingleTypeRelationships on Build.
type Importer struct {
	cfg    ImportConfig
	idMap  idmap.IdMap
	byNode map[int64][]rawEdge

	tuplesSeen int64
	dropped    int64
}

// NewImporter creates an importer bound to root, resolving tuple ids
// through it.
func NewImporter(cfg ImportConfig, root idmap.IdMap) *Importer {
	return &Importer{
		cfg:    cfg,
		idMap:  root,
		byNode: make(map[int64][]rawEdge),
	}
}

// AddBatch resolves and accumulates one batch of tuples. Tuples whose
// source or target original id is unknown are dropped (spec.md §4.2
// Failure semantics: "Unknown original source/target -> drop the tuple").
// NaN property values are a fatal error.
func (imp *Importer) AddBatch(tuples []RawTuple) error {
	for _, t := range tuples {
		imp.tuplesSeen++
		src := imp.idMap.ToMappedNodeId(t.SourceOriginal)
		dst := imp.idMap.ToMappedNodeId(t.TargetOriginal)
		if src == idmap.NotFound || dst == idmap.NotFound {
			imp.dropped++
			continue
		}
		for _, v := range t.Properties {
			if math.IsNaN(v) {
				return fmt.Errorf("csr: NaN property value for edge (%d -> %d)", t.SourceOriginal, t.TargetOriginal)
			}
		}
		props := make([]float64, len(t.Properties))
		copy(props, t.Properties)
		imp.byNode[src] = append(imp.byNode[src], rawEdge{target: dst, props: props})

		if imp.cfg.Direction == properties.DirectionUndirected {
			imp.byNode[dst] = append(imp.byNode[dst], rawEdge{target: src, props: props})
		}
	}
	return nil
}

// Dropped returns the number of out-of-graph tuples dropped so far.
func (imp *Importer) Dropped() int64 { return imp.dropped }

// Build runs the per-batch indirect sort, pre-aggregation and compression
// of spec.md §4.2 and returns the finished SingleTypeRelationships.
// nodeCount fixes the row count of the resulting topology (including rows
// with no outgoing edges).
func (imp *Importer) Build(nodeCount int64) (*SingleTypeRelationships, error) {
	forward, forwardProps, isMulti, err := imp.compress(nodeCount)
	if err != nil {
		return nil, err
	}

	result := &SingleTypeRelationships{
		Type:            imp.cfg.Type,
		Direction:       imp.cfg.Direction,
		Forward:         forward,
		PropertySchemas: make(map[string]properties.PropertySchema),
	}
	forward.IsMultigraph = isMulti
	if forwardProps != nil {
		result.ForwardProperties = forwardProps
		for _, pa := range imp.cfg.PropertyAggregations {
			result.PropertySchemas[pa.Key] = properties.PropertySchema{
				Key:       pa.Key,
				ValueType: gdsvalue.Double,
				State:     properties.StatePersistent,
			}
		}
	}

	if imp.cfg.BuildInverse {
		inverse, inverseProps, inverseMulti, err := imp.compressInverse(nodeCount)
		if err != nil {
			return nil, err
		}
		inverse.IsMultigraph = inverseMulti
		result.Inverse = inverse
		result.InverseProperties = inverseProps
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// compress performs steps 1-3 of spec.md §4.2 for the forward direction.
func (imp *Importer) compress(nodeCount int64) (*Topology, *properties.RelationshipPropertyStore, bool, error) {
	return compressRows(imp.byNode, nodeCount, imp.cfg.PropertyAggregations)
}

// compressInverse builds the incoming topology by swapping source/target
// of every accumulated edge and re-running the same per-row pipeline.
func (imp *Importer) compressInverse(nodeCount int64) (*Topology, *properties.RelationshipPropertyStore, bool, error) {
	byTarget := make(map[int64][]rawEdge, len(imp.byNode))
	for src, edges := range imp.byNode {
		for _, e := range edges {
			byTarget[e.target] = append(byTarget[e.target], rawEdge{target: src, props: e.props})
		}
	}
	return compressRows(byTarget, nodeCount, imp.cfg.PropertyAggregations)
}

// compressRows is the shared core of spec.md §4.2: per source row, stable
// sort by target ascending, walk runs of equal targets merging duplicates
// via the per-property Aggregation (marking losers with ignoreValue), then
// elide ignored entries while writing the final offsets/neighbors/columns.
func compressRows(byNode map[int64][]rawEdge, nodeCount int64, aggs []PropertyAggregation) (*Topology, *properties.RelationshipPropertyStore, bool, error) {
	offsets := make([]uint64, nodeCount+1)
	var neighbors []int64
	propCols := make([][]float64, len(aggs))
	isMultigraph := false

	for v := int64(0); v < nodeCount; v++ {
		edges := byNode[v]
		sort.SliceStable(edges, func(i, j int) bool { return edges[i].target < edges[j].target })

		targets := make([]int64, len(edges))
		for i, e := range edges {
			targets[i] = e.target
		}

		anyMerging := false
		for _, pa := range aggs {
			if pa.Aggregation.Merges() {
				anyMerging = true
			}
		}

		i := 0
		for i < len(edges) {
			j := i + 1
			for j < len(edges) && targets[j] == targets[i] {
				j++
			}
			if j-i > 1 && anyMerging {
				survivor := make([]float64, len(aggs))
				for p, pa := range aggs {
					if pa.Aggregation == AggregationCount {
						survivor[p] = 1
					} else if p < len(edges[i].props) {
						survivor[p] = edges[i].props[p]
					}
				}
				for k := i + 1; k < j; k++ {
					for p, pa := range aggs {
						if !pa.Aggregation.Merges() {
							continue
						}
						var next float64
						if p < len(edges[k].props) {
							next = edges[k].props[p]
						}
						survivor[p] = pa.Aggregation.Reduce(survivor[p], next)
					}
					targets[k] = ignoreValue // mark loser, elided below
				}
				edges[i].props = survivor
			} else if j-i > 1 {
				isMultigraph = true
			}
			i = j
		}

		offsets[v] = uint64(len(neighbors))
		for k := 0; k < len(edges); k++ {
			if targets[k] == ignoreValue {
				continue
			}
			neighbors = append(neighbors, targets[k])
			for p := range aggs {
				var val float64
				if p < len(edges[k].props) {
					val = edges[k].props[p]
				}
				propCols[p] = append(propCols[p], val)
			}
		}
	}
	offsets[nodeCount] = uint64(len(neighbors))

	topology := &Topology{
		Offsets:      offsets,
		Neighbors:    neighbors,
		ElementCount: uint64(len(neighbors)),
	}

	var store *properties.RelationshipPropertyStore
	if len(aggs) > 0 {
		store = properties.NewRelationshipPropertyStore(topology.ElementCount)
		for p, pa := range aggs {
			schema := properties.PropertySchema{Key: pa.Key, ValueType: gdsvalue.Double, State: properties.StatePersistent}
			if err := store.Add(schema, pa.Aggregation.String(), propCols[p]); err != nil {
				return nil, nil, false, err
			}
		}
	}

	return topology, store, isMultigraph, nil
}
