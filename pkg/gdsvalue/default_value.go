package gdsvalue

import (
	"math"
	"reflect"
)

// DefaultValue is a tagged triple (value type, optional user value, whether
// the user value was explicitly supplied). Resolution is defined by
// spec.md §3: if the value is user-defined and present, Resolve returns the
// stored value, even when that value is nil; otherwise it returns the
// type's fallback.
//
// §9 Open Question resolved: the source's untyped `DefaultValue.of(value)`
// is not ported. Callers MUST go through one of the typed factories below.
type DefaultValue struct {
	valueType     ValueType
	value         any
	isUserDefined bool
}

// ForLong builds a user-defined Long default.
func ForLong(v int64) DefaultValue { return DefaultValue{valueType: Long, value: v, isUserDefined: true} }

// ForDouble builds a user-defined Double default.
func ForDouble(v float64) DefaultValue {
	return DefaultValue{valueType: Double, value: v, isUserDefined: true}
}

// ForFloat builds a user-defined Float default.
func ForFloat(v float32) DefaultValue {
	return DefaultValue{valueType: Float, value: v, isUserDefined: true}
}

// ForBoolean builds a user-defined Boolean default.
func ForBoolean(v bool) DefaultValue {
	return DefaultValue{valueType: Boolean, value: v, isUserDefined: true}
}

// ForString builds a user-defined String default.
func ForString(v string) DefaultValue {
	return DefaultValue{valueType: String, value: v, isUserDefined: true}
}

// ForLongArray builds a user-defined LongArray default.
func ForLongArray(v []int64) DefaultValue {
	return DefaultValue{valueType: LongArray, value: v, isUserDefined: true}
}

// ForDoubleArray builds a user-defined DoubleArray default.
func ForDoubleArray(v []float64) DefaultValue {
	return DefaultValue{valueType: DoubleArray, value: v, isUserDefined: true}
}

// ForFloatArray builds a user-defined FloatArray default.
func ForFloatArray(v []float32) DefaultValue {
	return DefaultValue{valueType: FloatArray, value: v, isUserDefined: true}
}

// ForBooleanArray builds a user-defined BooleanArray default.
func ForBooleanArray(v []bool) DefaultValue {
	return DefaultValue{valueType: BooleanArray, value: v, isUserDefined: true}
}

// ForStringArray builds a user-defined StringArray default.
func ForStringArray(v []string) DefaultValue {
	return DefaultValue{valueType: StringArray, value: v, isUserDefined: true}
}

// Fallback builds the non-user-defined default for t: Resolve always
// returns t's deterministic fallback value.
func Fallback(t ValueType) DefaultValue {
	return DefaultValue{valueType: t, isUserDefined: false}
}

// ValueType returns the declared type of this default.
func (d DefaultValue) ValueType() ValueType { return d.valueType }

// IsUserDefined reports whether this default carries an explicit user value.
func (d DefaultValue) IsUserDefined() bool { return d.isUserDefined }

// Resolve returns the effective value per spec.md §3's resolution rule.
func (d DefaultValue) Resolve() any {
	if d.isUserDefined {
		return d.value
	}
	return d.valueType.FallbackValue()
}

// Equal reports whether two defaults have equal type, equal user-defined
// flag, and structurally equal resolved values.
func (d DefaultValue) Equal(other DefaultValue) bool {
	if d.valueType != other.valueType || d.isUserDefined != other.isUserDefined {
		return false
	}
	a, b := d.Resolve(), other.Resolve()
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && (av == bv || (math.IsNaN(av) && math.IsNaN(bv)))
	case float32:
		bv, ok := b.(float32)
		return ok && (av == bv || (math.IsNaN(float64(av)) && math.IsNaN(float64(bv))))
	default:
		return reflect.DeepEqual(a, b)
	}
}
