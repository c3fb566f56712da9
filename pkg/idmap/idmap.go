// Package idmap implements the bijection between external (original) node
// ids and the dense internal ids [0, N) the rest of the graph store
// operates on, plus label-filtered views over that bijection.
package idmap

import (
	"github.com/csrgraph/graphctl/pkg/collections"
)

// NotFound is the sentinel mapped id returned when an original id is not
// present in the map.
const NotFound int64 = -1

// NodeLabel names a partition of nodes (spec.md GLOSSARY).
type NodeLabel string

// IdMap is the bijection contract of spec.md §4.1. Implementations must
// provide O(1) amortized lookups in both directions.
type IdMap interface {
	// ToMappedNodeId returns the dense id for original, or NotFound.
	ToMappedNodeId(original int64) int64
	// ToOriginalNodeId returns the original id for mapped. Behavior for an
	// out-of-range mapped id is undefined (caller's responsibility).
	ToOriginalNodeId(mapped int64) int64
	// ContainsOriginalId reports whether original is present in the map.
	ContainsOriginalId(original int64) bool
	// NodeCount returns the number of nodes, optionally restricted to the
	// union of the given labels. With no labels it is the total count.
	NodeCount(labels ...NodeLabel) int64
	// HighestOriginalId returns the largest original id ever inserted, or
	// -1 if the map is empty.
	HighestOriginalId() int64
	// NodeLabels returns the set of labels assigned to mapped.
	NodeLabels(mapped int64) []NodeLabel
	// HasLabel reports whether mapped carries label.
	HasLabel(mapped int64, label NodeLabel) bool
	// AddNodeLabel declares a new label (idempotent if it already exists).
	AddNodeLabel(label NodeLabel)
	// AddNodeIdToLabel assigns mapped to label, declaring the label first
	// if necessary.
	AddNodeIdToLabel(mapped int64, label NodeLabel)
	// AvailableNodeLabels returns the union of all labels ever declared.
	AvailableNodeLabels() []NodeLabel
	// ForEachNodeLabel calls fn for every label on mapped, in a
	// deterministic order for repeated calls on the same map.
	ForEachNodeLabel(mapped int64, fn func(NodeLabel) bool)
	// WithFilteredLabels returns a filtered view containing exactly the
	// nodes carrying at least one of labels, or (nil, false) if the
	// result would be empty.
	WithFilteredLabels(labels []NodeLabel, concurrency int) (FilteredIdMap, bool)
	// RootIdMap returns the unfiltered map this view ultimately chains to
	// (itself, for a root map).
	RootIdMap() IdMap
	// ToRootNodeId maps a mapped id of this view back to the root map's
	// mapped id space (identity for a root map).
	ToRootNodeId(mapped int64) int64
}

// FilteredIdMap is an IdMap that also knows the size of the root it was
// filtered from (spec.md §4.1).
type FilteredIdMap interface {
	IdMap
	// RootNodeCount returns the unfiltered node count of the root map.
	RootNodeCount() int64
}

// LabeledIdMap is the root (non-filtered), mutable bijection. It is the
// concrete implementation callers build; filtered views are produced from
// it by WithFilteredLabels.
type LabeledIdMap struct {
	originalToMapped map[int64]int64
	mappedToOriginal []int64
	labelOrder       []NodeLabel
	labelBits        map[NodeLabel]*collections.Bitset
	highestOriginal  int64
}

var _ IdMap = (*LabeledIdMap)(nil)

// NewLabeledIdMap builds an empty map with room for sizeHint nodes.
func NewLabeledIdMap(sizeHint int) *LabeledIdMap {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &LabeledIdMap{
		originalToMapped: make(map[int64]int64, sizeHint),
		mappedToOriginal: make([]int64, 0, sizeHint),
		labelBits:        make(map[NodeLabel]*collections.Bitset),
		highestOriginal:  -1,
	}
}

// Add inserts a new original id and returns its freshly assigned mapped id.
// If original is already present, its existing mapped id is returned
// unchanged.
func (m *LabeledIdMap) Add(original int64) int64 {
	if mapped, ok := m.originalToMapped[original]; ok {
		return mapped
	}
	mapped := int64(len(m.mappedToOriginal))
	m.originalToMapped[original] = mapped
	m.mappedToOriginal = append(m.mappedToOriginal, original)
	if original > m.highestOriginal {
		m.highestOriginal = original
	}
	return mapped
}

func (m *LabeledIdMap) ToMappedNodeId(original int64) int64 {
	if mapped, ok := m.originalToMapped[original]; ok {
		return mapped
	}
	return NotFound
}

func (m *LabeledIdMap) ToOriginalNodeId(mapped int64) int64 {
	return m.mappedToOriginal[mapped]
}

func (m *LabeledIdMap) ContainsOriginalId(original int64) bool {
	_, ok := m.originalToMapped[original]
	return ok
}

func (m *LabeledIdMap) NodeCount(labels ...NodeLabel) int64 {
	if len(labels) == 0 {
		return int64(len(m.mappedToOriginal))
	}
	var count int64
	total := int64(len(m.mappedToOriginal))
	for i := int64(0); i < total; i++ {
		for _, l := range labels {
			if m.HasLabel(i, l) {
				count++
				break
			}
		}
	}
	return count
}

func (m *LabeledIdMap) HighestOriginalId() int64 {
	return m.highestOriginal
}

func (m *LabeledIdMap) AddNodeLabel(label NodeLabel) {
	if _, ok := m.labelBits[label]; ok {
		return
	}
	m.labelOrder = append(m.labelOrder, label)
	m.labelBits[label] = collections.NewBitset(len(m.mappedToOriginal))
}

func (m *LabeledIdMap) AddNodeIdToLabel(mapped int64, label NodeLabel) {
	m.AddNodeLabel(label)
	m.labelBits[label].Set(int(mapped))
}

func (m *LabeledIdMap) HasLabel(mapped int64, label NodeLabel) bool {
	bs, ok := m.labelBits[label]
	if !ok {
		return false
	}
	return bs.Test(int(mapped))
}

func (m *LabeledIdMap) NodeLabels(mapped int64) []NodeLabel {
	var out []NodeLabel
	m.ForEachNodeLabel(mapped, func(l NodeLabel) bool {
		out = append(out, l)
		return true
	})
	return out
}

func (m *LabeledIdMap) ForEachNodeLabel(mapped int64, fn func(NodeLabel) bool) {
	for _, label := range m.labelOrder {
		if m.labelBits[label].Test(int(mapped)) {
			if !fn(label) {
				return
			}
		}
	}
}

func (m *LabeledIdMap) AvailableNodeLabels() []NodeLabel {
	out := make([]NodeLabel, len(m.labelOrder))
	copy(out, m.labelOrder)
	return out
}

func (m *LabeledIdMap) RootIdMap() IdMap { return m }

func (m *LabeledIdMap) ToRootNodeId(mapped int64) int64 { return mapped }

// WithFilteredLabels builds a FilteredIdMap containing exactly the nodes
// that carry at least one of labels (spec.md §4.1). Concurrency is accepted
// for interface symmetry with the reference system, which parallelizes
// bitset scans for very large node counts; this implementation does a
// single sequential scan since filtering a bitset is already O(N/64).
func (m *LabeledIdMap) WithFilteredLabels(labels []NodeLabel, concurrency int) (FilteredIdMap, bool) {
	union := collections.NewBitset(len(m.mappedToOriginal))
	any := false
	for _, l := range labels {
		if bs, ok := m.labelBits[l]; ok {
			union.Or(bs)
			any = true
		}
	}
	if !any || union.Count() == 0 {
		return nil, false
	}

	filtered := &filteredIdMap{
		root:          m,
		rootNodeCount: int64(len(m.mappedToOriginal)),
	}
	union.Iterate(func(rootID int) bool {
		filtered.filteredToRoot = append(filtered.filteredToRoot, int64(rootID))
		return true
	})
	filtered.rootToFiltered = make(map[int64]int64, len(filtered.filteredToRoot))
	for filteredID, rootID := range filtered.filteredToRoot {
		filtered.rootToFiltered[rootID] = int64(filteredID)
	}
	return filtered, true
}
