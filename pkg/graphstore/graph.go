package graphstore

import (
	"fmt"

	"github.com/csrgraph/graphctl/pkg/csr"
	gerrors "github.com/csrgraph/graphctl/pkg/errors"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/properties"
)

// Characteristics describes what a Graph view supports (spec.md §4.4).
type Characteristics struct {
	Directed       bool
	Undirected     bool
	InverseIndexed bool
	Multigraph     bool
}

// Graph is the read-only view algorithms receive (spec.md §4.4/§6): an
// IdMap plus one or more relationship types' topologies merged for degree
// and iteration purposes, and (optionally) a single bound relationship
// property for weighted traversal.
//
// A Graph value is not safe for concurrent reads; call concurrentCopy() to
// obtain an instance that is, mirroring the reference system's policy even
// though this implementation's iteration is already stateless (no cursor
// fields), so the copy is cheap.
type Graph struct {
	idMap           idmap.IdMap
	forward         []*csr.Topology
	inverse         []*csr.Topology
	boundProperty   *properties.Column
	boundPropertyOf string
	schema          *properties.GraphSchema
	characteristics Characteristics
}

// NodeCount returns the view's node count.
func (g *Graph) NodeCount() int64 { return g.idMap.NodeCount() }

// RelationshipCount returns the sum of element counts across every
// relationship type merged into this view.
func (g *Graph) RelationshipCount() int64 {
	var total int64
	for _, t := range g.forward {
		total += int64(t.ElementCount)
	}
	return total
}

// ToMappedNodeId delegates to the underlying IdMap.
func (g *Graph) ToMappedNodeId(original int64) int64 { return g.idMap.ToMappedNodeId(original) }

// ToOriginalNodeId delegates to the underlying IdMap.
func (g *Graph) ToOriginalNodeId(mapped int64) int64 { return g.idMap.ToOriginalNodeId(mapped) }

// Degree returns the sum of forward degree across every merged type.
func (g *Graph) Degree(v int64) int64 {
	var total int64
	for _, t := range g.forward {
		total += t.Degree(v)
	}
	return total
}

// DegreeInverse returns the sum of inverse degree; only meaningful when
// Characteristics().InverseIndexed is true.
func (g *Graph) DegreeInverse(v int64) int64 {
	var total int64
	for _, t := range g.inverse {
		total += t.Degree(v)
	}
	return total
}

// DegreeWithoutParallelRelationships returns the number of distinct
// neighbors of v, collapsing parallel edges within and across merged
// types.
func (g *Graph) DegreeWithoutParallelRelationships(v int64) int64 {
	seen := make(map[int64]struct{})
	for _, t := range g.forward {
		for _, target := range t.NeighborsOf(v) {
			seen[target] = struct{}{}
		}
	}
	return int64(len(seen))
}

// ForEachRelationship calls fn(target) for every outgoing relationship of
// v across every merged type, in type order then row order.
func (g *Graph) ForEachRelationship(v int64, fn func(target int64) bool) {
	for _, t := range g.forward {
		stop := false
		t.ForEachRelationship(v, func(target int64) bool {
			if !fn(target) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

// ForEachRelationshipWeighted calls fn(target, weight) using the bound
// relationship property as the weight, falling back to fallbackWeight when
// no property is bound.
func (g *Graph) ForEachRelationshipWeighted(v int64, fallbackWeight float64, fn func(target int64, weight float64) bool) {
	for _, t := range g.forward {
		idx := int64(t.Offsets[v])
		stop := false
		t.ForEachRelationship(v, func(target int64) bool {
			weight := fallbackWeight
			if g.boundProperty != nil {
				if w, err := g.boundProperty.GetDouble(idx); err == nil {
					weight = w
				}
			}
			idx++
			if !fn(target, weight) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

// NthTarget returns the k-th neighbor of v across the merged types, or -1
// if k is out of range for all of them combined.
func (g *Graph) NthTarget(v, k int64) int64 {
	for _, t := range g.forward {
		d := t.Degree(v)
		if k < d {
			return t.NthTarget(v, k)
		}
		k -= d
	}
	return -1
}

// ForEachInverseRelationship calls fn(source) for every relationship
// pointing at v across every merged type's inverse topology. Only
// meaningful when Characteristics().InverseIndexed is true.
func (g *Graph) ForEachInverseRelationship(v int64, fn func(source int64) bool) {
	for _, t := range g.inverse {
		stop := false
		t.ForEachRelationship(v, func(source int64) bool {
			if !fn(source) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

// BoundPropertyKey returns the key of the single relationship property
// bound to this view, the one ForEachRelationshipWeighted reads.
func (g *Graph) BoundPropertyKey() string { return g.boundPropertyOf }

// Schema returns the view's schema.
func (g *Graph) Schema() *properties.GraphSchema { return g.schema }

// Characteristics returns the view's capability flags.
func (g *Graph) Characteristics() Characteristics { return g.characteristics }

// ConcurrentCopy returns an instance safe for concurrent traversal
// (spec.md §4.4). Iteration here never mutates shared state, so this is a
// shallow copy rather than a defensive deep clone.
func (g *Graph) ConcurrentCopy() *Graph {
	cp := *g
	return &cp
}

// GetGraph builds a Graph view restricted to the union of the given node
// labels (all nodes if labels is empty), the given relationship types (all
// types if empty), and optionally a single bound property for weighted
// traversal (spec.md §4.4 getGraph(labels, types?, property?)).
func (gs *GraphStore) GetGraph(labels []idmap.NodeLabel, types []string, propertyKey string) (*Graph, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	view := gs.idMap
	if len(labels) > 0 {
		filtered, ok := gs.idMap.WithFilteredLabels(labels, gs.concurrency)
		if !ok {
			return nil, gerrors.New(gerrors.CodeDomainViolation, "label filter selects zero nodes")
		}
		view = filtered
	}

	selected := types
	if len(selected) == 0 {
		selected = make([]string, 0, len(gs.relByType))
		for t := range gs.relByType {
			selected = append(selected, t)
		}
	}

	g := &Graph{idMap: view, schema: gs.schema}
	multigraph := false
	hasInverse := true
	var direction properties.Direction
	for i, t := range selected {
		rel, ok := gs.relByType[t]
		if !ok {
			return nil, gerrors.New(gerrors.CodeNotFound, fmt.Sprintf("relationship type %q not found", t))
		}
		g.forward = append(g.forward, rel.Forward)
		if rel.Inverse != nil {
			g.inverse = append(g.inverse, rel.Inverse)
		} else {
			hasInverse = false
		}
		multigraph = multigraph || rel.Forward.IsMultigraph
		if i == 0 {
			direction = rel.Direction
		}

		if propertyKey != "" {
			if rel.ForwardProperties == nil {
				return nil, gerrors.New(gerrors.CodeDomainViolation, fmt.Sprintf("relationship type %q has no properties", t))
			}
			prop, ok := rel.ForwardProperties.Get(propertyKey)
			if !ok {
				return nil, gerrors.New(gerrors.CodeDomainViolation, fmt.Sprintf("relationship type %q has no property %q", t, propertyKey))
			}
			if len(selected) > 1 {
				return nil, gerrors.New(gerrors.CodeDomainViolation, "a bound property requires exactly one relationship type")
			}
			g.boundProperty = prop.Values
			g.boundPropertyOf = propertyKey
		}
	}

	g.characteristics = Characteristics{
		Directed:       direction != properties.DirectionUndirected,
		Undirected:     direction == properties.DirectionUndirected,
		InverseIndexed: hasInverse && len(g.inverse) == len(g.forward),
		Multigraph:     multigraph,
	}
	return g, nil
}

// GetUnion iterates every declared relationship type and returns a Graph
// view merging them all (spec.md §4.4 getUnion(), §9 resolved: implemented
// rather than left TODO).
func (gs *GraphStore) GetUnion() (*Graph, error) {
	return gs.GetGraph(nil, nil, "")
}

// RelationshipTypeFilteredGraph returns a view restricted to types without
// copying the underlying topology (spec.md §4.4).
func (gs *GraphStore) RelationshipTypeFilteredGraph(types []string) (*Graph, error) {
	return gs.GetGraph(nil, types, "")
}
