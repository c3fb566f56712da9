package pregel

import (
	"math"

	"github.com/csrgraph/graphctl/pkg/gdsvalue"
)

// Visibility controls whether a node-value element is copied back into the
// graph store after the computation completes (spec.md §4.7).
type Visibility int

const (
	// Public elements are written back to the graph store as node
	// properties once the computation halts.
	Public Visibility = iota
	// Private elements exist only for the duration of the computation.
	Private
)

// Element describes one column of per-vertex state a computation declares
// up front (spec.md §4.7 "schema: ordered list of (key, type, visibility)").
type Element struct {
	PropertyKey string
	ValueType   gdsvalue.ValueType
	Visibility  Visibility
}

// PregelSchema is the ordered declaration of node-value columns a
// Computation maintains across supersteps.
type PregelSchema struct {
	elements []Element
}

// NewPregelSchema builds a schema from zero or more declared elements.
func NewPregelSchema(elements ...Element) *PregelSchema {
	return &PregelSchema{elements: append([]Element(nil), elements...)}
}

// Elements returns the declared columns in declaration order.
func (s *PregelSchema) Elements() []Element { return s.elements }

// Add appends a Public element of the given value type and returns the
// schema for chaining.
func (s *PregelSchema) Add(key string, valueType gdsvalue.ValueType) *PregelSchema {
	return s.AddWithVisibility(key, valueType, Public)
}

// AddWithVisibility appends an element with an explicit visibility.
func (s *PregelSchema) AddWithVisibility(key string, valueType gdsvalue.ValueType, visibility Visibility) *PregelSchema {
	s.elements = append(s.elements, Element{PropertyKey: key, ValueType: valueType, Visibility: visibility})
	return s
}

// defaultFor returns the per-vertex INIT value for a node-value column
// (spec.md §4.7 INIT step): DOUBLE initializes to NaN, LONG to -1 (a
// sentinel distinct from gdsvalue's general zero-value fallback, since
// Pregel computations commonly use -1 to mean "unvisited"), and array
// types to an empty, non-nil slice.
func defaultFor(t gdsvalue.ValueType) any {
	switch t {
	case gdsvalue.Double:
		return math.NaN()
	case gdsvalue.Long:
		return int64(-1)
	case gdsvalue.LongArray:
		return []int64{}
	case gdsvalue.DoubleArray:
		return []float64{}
	default:
		return t.FallbackValue()
	}
}
