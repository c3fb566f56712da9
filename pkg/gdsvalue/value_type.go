// Package gdsvalue defines the closed universe of property value types used
// across the graph store: their CSV names, deterministic fallback values,
// and the compatibility/conversion rules that govern implicit reads.
package gdsvalue

import (
	"fmt"
	"math"
)

// ValueType is one member of the closed value-type universe.
type ValueType int

const (
	Unknown ValueType = iota
	Long
	Double
	Float
	Boolean
	String
	LongArray
	DoubleArray
	FloatArray
	BooleanArray
	StringArray
	UntypedArray
)

// String returns a human-readable name, used in logs and error messages.
func (t ValueType) String() string {
	switch t {
	case Long:
		return "Long"
	case Double:
		return "Double"
	case Float:
		return "Float"
	case Boolean:
		return "Boolean"
	case String:
		return "String"
	case LongArray:
		return "LongArray"
	case DoubleArray:
		return "DoubleArray"
	case FloatArray:
		return "FloatArray"
	case BooleanArray:
		return "BooleanArray"
	case StringArray:
		return "StringArray"
	case UntypedArray:
		return "UntypedArray"
	default:
		return "Unknown"
	}
}

// csvNames is the stable CSV/export name for every representable value
// type. UNKNOWN is intentionally absent: it is not representable in CSV.
var csvNames = map[ValueType]string{
	Long:         "long",
	Double:       "double",
	Float:        "float",
	Boolean:      "boolean",
	String:       "string",
	LongArray:    "long[]",
	DoubleArray:  "double[]",
	FloatArray:   "float[]",
	BooleanArray: "boolean[]",
	StringArray:  "string[]",
	UntypedArray: "Any[]",
}

// csvNameAliases accepts additional spellings seen in persistence formats
// without weakening fromCsvName's rejection of anything else.
var csvNameAliases = map[string]ValueType{
	"bigint":   Long,
	"bigint[]": LongArray,
}

// CsvName returns the stable CSV export name for t, or "" if t has none
// (i.e. t == Unknown).
func (t ValueType) CsvName() (string, bool) {
	name, ok := csvNames[t]
	return name, ok
}

// ValueTypeFromCsvName parses the stable CSV names (and their accepted
// aliases) back into a ValueType. Any other string is rejected.
func ValueTypeFromCsvName(name string) (ValueType, error) {
	for t, n := range csvNames {
		if n == name {
			return t, nil
		}
	}
	if t, ok := csvNameAliases[name]; ok {
		return t, nil
	}
	return Unknown, fmt.Errorf("gdsvalue: unrecognized value type csv name %q", name)
}

// IsArray reports whether t is one of the array-typed members.
func (t ValueType) IsArray() bool {
	switch t {
	case LongArray, DoubleArray, FloatArray, BooleanArray, StringArray, UntypedArray:
		return true
	default:
		return false
	}
}

// CompatibleWith reports whether a column declared as "t" may be read back
// as "other" without an explicit conversion:
//   - a type is always compatible with itself
//   - every typed array is compatible with UntypedArray
//   - Float is compatible with Double
//   - Long is compatible with Long (BigInt is a wider alias of Long, not a
//     distinct member of this universe; see §3 of the spec)
func (t ValueType) CompatibleWith(other ValueType) bool {
	if t == other {
		return true
	}
	if other == UntypedArray && t.IsArray() {
		return true
	}
	if t == Float && other == Double {
		return true
	}
	return false
}

// FallbackValue returns the deterministic zero value for t: 0 for numeric
// scalars, NaN for Double/Float, "" for String, false for Boolean, and an
// empty (non-nil) slice for every array type.
func (t ValueType) FallbackValue() any {
	switch t {
	case Long:
		return int64(0)
	case Double:
		return math.NaN()
	case Float:
		return float32(math.NaN())
	case Boolean:
		return false
	case String:
		return ""
	case LongArray:
		return []int64{}
	case DoubleArray:
		return []float64{}
	case FloatArray:
		return []float32{}
	case BooleanArray:
		return []bool{}
	case StringArray:
		return []string{}
	case UntypedArray:
		return []any{}
	default:
		return nil
	}
}
