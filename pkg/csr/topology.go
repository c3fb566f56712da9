package csr

import "fmt"

// Topology is the CSR adjacency for one relationship type and one
// direction (spec.md §3): offsets[0..N], a flat neighbors array, the total
// element count, and whether any row retained parallel edges.
type Topology struct {
	Offsets      []uint64
	Neighbors    []int64
	ElementCount uint64
	IsMultigraph bool
}

// NodeCount returns N, the number of rows (len(Offsets)-1).
func (t *Topology) NodeCount() int64 {
	if len(t.Offsets) == 0 {
		return 0
	}
	return int64(len(t.Offsets) - 1)
}

// Degree returns offsets[v+1] - offsets[v].
func (t *Topology) Degree(v int64) int64 {
	return int64(t.Offsets[v+1] - t.Offsets[v])
}

// NeighborsOf returns the (ascending-sorted, stable-across-calls) slice of
// mapped target ids for v. The returned slice aliases Topology's storage
// and must not be mutated by callers.
func (t *Topology) NeighborsOf(v int64) []int64 {
	return t.Neighbors[t.Offsets[v]:t.Offsets[v+1]]
}

// NthTarget returns the k-th neighbor of v, or -1 if k is out of range.
func (t *Topology) NthTarget(v, k int64) int64 {
	row := t.NeighborsOf(v)
	if k < 0 || k >= int64(len(row)) {
		return -1
	}
	return row[k]
}

// ForEachRelationship calls fn(target) for every neighbor of v in row
// order, stopping early if fn returns false.
func (t *Topology) ForEachRelationship(v int64, fn func(target int64) bool) {
	for _, target := range t.NeighborsOf(v) {
		if !fn(target) {
			return
		}
	}
}

// Validate checks the well-formedness invariants of spec.md §3/§8:
// offsets[0] = 0, non-decreasing, offsets[N] = element_count, and every
// neighbor is a valid mapped id < N.
func (t *Topology) Validate() error {
	if len(t.Offsets) == 0 {
		return fmt.Errorf("csr: topology has no offsets")
	}
	if t.Offsets[0] != 0 {
		return fmt.Errorf("csr: offsets[0] = %d, want 0", t.Offsets[0])
	}
	n := t.NodeCount()
	for i := int64(1); i < int64(len(t.Offsets)); i++ {
		if t.Offsets[i] < t.Offsets[i-1] {
			return fmt.Errorf("csr: offsets not monotonically non-decreasing at index %d", i)
		}
	}
	if t.Offsets[len(t.Offsets)-1] != t.ElementCount {
		return fmt.Errorf("csr: offsets[N] = %d, want element_count %d", t.Offsets[len(t.Offsets)-1], t.ElementCount)
	}
	if uint64(len(t.Neighbors)) != t.ElementCount {
		return fmt.Errorf("csr: neighbors length %d != element_count %d", len(t.Neighbors), t.ElementCount)
	}
	for _, target := range t.Neighbors {
		if target < 0 || target >= n {
			return fmt.Errorf("csr: neighbor %d out of range [0,%d)", target, n)
		}
	}
	return nil
}
