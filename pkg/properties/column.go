package properties

import (
	"fmt"

	"github.com/csrgraph/graphctl/pkg/gdsvalue"
)

// Column is a monomorphic typed array: exactly one of its slice fields is
// populated, selected by valueType. Access is O(1); cross-type reads are
// permitted only through the exact conversions of spec.md §4.3.
type Column struct {
	valueType gdsvalue.ValueType

	longs      []int64
	doubles    []float64
	floats     []float32
	bools      []bool
	strs       []string
	longArrs   [][]int64
	doubleArrs [][]float64
	floatArrs  [][]float32
	boolArrs   [][]bool
	strArrs    [][]string
}

func NewLongColumn(v []int64) *Column       { return &Column{valueType: gdsvalue.Long, longs: v} }
func NewDoubleColumn(v []float64) *Column   { return &Column{valueType: gdsvalue.Double, doubles: v} }
func NewFloatColumn(v []float32) *Column    { return &Column{valueType: gdsvalue.Float, floats: v} }
func NewBooleanColumn(v []bool) *Column     { return &Column{valueType: gdsvalue.Boolean, bools: v} }
func NewStringColumn(v []string) *Column    { return &Column{valueType: gdsvalue.String, strs: v} }
func NewLongArrayColumn(v [][]int64) *Column {
	return &Column{valueType: gdsvalue.LongArray, longArrs: v}
}
func NewDoubleArrayColumn(v [][]float64) *Column {
	return &Column{valueType: gdsvalue.DoubleArray, doubleArrs: v}
}
func NewFloatArrayColumn(v [][]float32) *Column {
	return &Column{valueType: gdsvalue.FloatArray, floatArrs: v}
}
func NewBooleanArrayColumn(v [][]bool) *Column {
	return &Column{valueType: gdsvalue.BooleanArray, boolArrs: v}
}
func NewStringArrayColumn(v [][]string) *Column {
	return &Column{valueType: gdsvalue.StringArray, strArrs: v}
}

// ValueType returns the column's declared type.
func (c *Column) ValueType() gdsvalue.ValueType { return c.valueType }

// Len returns the column's length.
func (c *Column) Len() int64 {
	switch c.valueType {
	case gdsvalue.Long:
		return int64(len(c.longs))
	case gdsvalue.Double:
		return int64(len(c.doubles))
	case gdsvalue.Float:
		return int64(len(c.floats))
	case gdsvalue.Boolean:
		return int64(len(c.bools))
	case gdsvalue.String:
		return int64(len(c.strs))
	case gdsvalue.LongArray:
		return int64(len(c.longArrs))
	case gdsvalue.DoubleArray:
		return int64(len(c.doubleArrs))
	case gdsvalue.FloatArray:
		return int64(len(c.floatArrs))
	case gdsvalue.BooleanArray:
		return int64(len(c.boolArrs))
	case gdsvalue.StringArray:
		return int64(len(c.strArrs))
	default:
		return 0
	}
}

// GetLong reads index i as an int64, applying the exact Double/Float->Long
// conversion when the underlying column isn't already Long.
func (c *Column) GetLong(i int64) (int64, error) {
	switch c.valueType {
	case gdsvalue.Long:
		return c.longs[i], nil
	case gdsvalue.Double:
		v, ok := gdsvalue.ExactDoubleToLong(c.doubles[i])
		if !ok {
			return 0, fmt.Errorf("properties: value %v at index %d is not exactly representable as long", c.doubles[i], i)
		}
		return v, nil
	case gdsvalue.Float:
		v, ok := gdsvalue.ExactDoubleToLong(float64(c.floats[i]))
		if !ok {
			return 0, fmt.Errorf("properties: value %v at index %d is not exactly representable as long", c.floats[i], i)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("properties: cannot read %s column as long", c.valueType)
	}
}

// GetDouble reads index i as a float64, applying the exact Long->Double or
// Float->Double widening when needed.
func (c *Column) GetDouble(i int64) (float64, error) {
	switch c.valueType {
	case gdsvalue.Double:
		return c.doubles[i], nil
	case gdsvalue.Float:
		return float64(c.floats[i]), nil
	case gdsvalue.Long:
		v, ok := gdsvalue.ExactLongToDouble(c.longs[i])
		if !ok {
			return 0, fmt.Errorf("properties: long %d at index %d exceeds exact double range", c.longs[i], i)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("properties: cannot read %s column as double", c.valueType)
	}
}

// GetFloat reads index i as a float32, applying the exact Long->Float
// conversion or the overflow-checked Double->Float narrowing.
func (c *Column) GetFloat(i int64) (float32, error) {
	switch c.valueType {
	case gdsvalue.Float:
		return c.floats[i], nil
	case gdsvalue.Long:
		v, ok := gdsvalue.ExactLongToFloat(c.longs[i])
		if !ok {
			return 0, fmt.Errorf("properties: long %d at index %d exceeds exact float range", c.longs[i], i)
		}
		return v, nil
	case gdsvalue.Double:
		v, ok := gdsvalue.NotOverflowingDoubleToFloat(c.doubles[i])
		if !ok {
			return 0, fmt.Errorf("properties: double %v at index %d overflows float32", c.doubles[i], i)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("properties: cannot read %s column as float", c.valueType)
	}
}

// GetBoolean reads index i as a bool. No implicit conversion applies.
func (c *Column) GetBoolean(i int64) (bool, error) {
	if c.valueType != gdsvalue.Boolean {
		return false, fmt.Errorf("properties: cannot read %s column as boolean", c.valueType)
	}
	return c.bools[i], nil
}

// GetString reads index i as a string. No implicit conversion applies.
func (c *Column) GetString(i int64) (string, error) {
	if c.valueType != gdsvalue.String {
		return "", fmt.Errorf("properties: cannot read %s column as string", c.valueType)
	}
	return c.strs[i], nil
}

// GetAny returns the raw value at i, boxed, for array types and for
// callers that already know the column's declared type.
func (c *Column) GetAny(i int64) any {
	switch c.valueType {
	case gdsvalue.Long:
		return c.longs[i]
	case gdsvalue.Double:
		return c.doubles[i]
	case gdsvalue.Float:
		return c.floats[i]
	case gdsvalue.Boolean:
		return c.bools[i]
	case gdsvalue.String:
		return c.strs[i]
	case gdsvalue.LongArray:
		return c.longArrs[i]
	case gdsvalue.DoubleArray:
		return c.doubleArrs[i]
	case gdsvalue.FloatArray:
		return c.floatArrs[i]
	case gdsvalue.BooleanArray:
		return c.boolArrs[i]
	case gdsvalue.StringArray:
		return c.strArrs[i]
	default:
		return nil
	}
}
