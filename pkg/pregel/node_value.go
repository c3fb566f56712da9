package pregel

import (
	"fmt"

	"github.com/csrgraph/graphctl/pkg/gdsvalue"
)

// NodeValue is the mutable per-vertex column store backing a computation's
// declared PregelSchema (spec.md §4.7). Each column is allocated as a
// typed, densely-indexed array sized to the node count; reads/writes are
// type-checked against the column's declared ValueType.
type NodeValue struct {
	schema     *PregelSchema
	index      map[string]int
	doubleCols map[string][]float64
	longCols   map[string][]int64
}

// NewNodeValue allocates every column declared in schema, filled with its
// INIT default (spec.md §4.7 INIT step).
func NewNodeValue(schema *PregelSchema, nodeCount int64) *NodeValue {
	nv := &NodeValue{
		schema:     schema,
		index:      make(map[string]int, len(schema.Elements())),
		doubleCols: make(map[string][]float64),
		longCols:   make(map[string][]int64),
	}
	for i, el := range schema.Elements() {
		nv.index[el.PropertyKey] = i
		switch el.ValueType {
		case gdsvalue.Double:
			col := make([]float64, nodeCount)
			def := defaultFor(el.ValueType).(float64)
			for j := range col {
				col[j] = def
			}
			nv.doubleCols[el.PropertyKey] = col
		case gdsvalue.Long:
			col := make([]int64, nodeCount)
			def := defaultFor(el.ValueType).(int64)
			for j := range col {
				col[j] = def
			}
			nv.longCols[el.PropertyKey] = col
		default:
			// Array and other element types are not materialized as dense
			// per-vertex columns; computations needing them should use the
			// graph store's property stores directly.
		}
	}
	return nv
}

func (nv *NodeValue) mustExist(key string) error {
	if _, ok := nv.index[key]; !ok {
		return fmt.Errorf("pregel: node value key %q not declared in schema", key)
	}
	return nil
}

// DoubleValue reads a Double column at nodeId.
func (nv *NodeValue) DoubleValue(key string, nodeId int64) (float64, error) {
	if err := nv.mustExist(key); err != nil {
		return 0, err
	}
	col, ok := nv.doubleCols[key]
	if !ok {
		return 0, fmt.Errorf("pregel: %q is not a Double column", key)
	}
	return col[nodeId], nil
}

// SetDoubleValue writes a Double column at nodeId.
func (nv *NodeValue) SetDoubleValue(key string, nodeId int64, value float64) error {
	if err := nv.mustExist(key); err != nil {
		return err
	}
	col, ok := nv.doubleCols[key]
	if !ok {
		return fmt.Errorf("pregel: %q is not a Double column", key)
	}
	col[nodeId] = value
	return nil
}

// LongValue reads a Long column at nodeId.
func (nv *NodeValue) LongValue(key string, nodeId int64) (int64, error) {
	if err := nv.mustExist(key); err != nil {
		return 0, err
	}
	col, ok := nv.longCols[key]
	if !ok {
		return 0, fmt.Errorf("pregel: %q is not a Long column", key)
	}
	return col[nodeId], nil
}

// SetLongValue writes a Long column at nodeId.
func (nv *NodeValue) SetLongValue(key string, nodeId int64, value int64) error {
	if err := nv.mustExist(key); err != nil {
		return err
	}
	col, ok := nv.longCols[key]
	if !ok {
		return fmt.Errorf("pregel: %q is not a Long column", key)
	}
	col[nodeId] = value
	return nil
}

// DoubleColumn exposes the raw backing slice for a Double key, used by the
// computer to copy public columns back into the graph store after
// convergence.
func (nv *NodeValue) DoubleColumn(key string) ([]float64, bool) {
	col, ok := nv.doubleCols[key]
	return col, ok
}

// LongColumn exposes the raw backing slice for a Long key.
func (nv *NodeValue) LongColumn(key string) ([]int64, bool) {
	col, ok := nv.longCols[key]
	return col, ok
}

// Schema returns the schema this store was built from.
func (nv *NodeValue) Schema() *PregelSchema { return nv.schema }
