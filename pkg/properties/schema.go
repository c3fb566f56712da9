// Package properties implements the three typed property stores
// (graph-level, node-level, relationship-level) and the mutable schema
// that tracks them, per spec.md §3/§4.3/§4.4.
package properties

import "github.com/csrgraph/graphctl/pkg/gdsvalue"

// PropertyState marks whether a property's values are expected to survive
// independent of the run that produced them.
type PropertyState int

const (
	StatePersistent PropertyState = iota
	StateTransient
)

func (s PropertyState) String() string {
	if s == StateTransient {
		return "transient"
	}
	return "persistent"
}

// PropertySchema is (key, valueType, defaultValue, state) — spec.md
// GLOSSARY.
type PropertySchema struct {
	Key          string
	ValueType    gdsvalue.ValueType
	DefaultValue gdsvalue.DefaultValue
	State        PropertyState
}
