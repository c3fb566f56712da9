package csr

import (
	"fmt"

	"github.com/csrgraph/graphctl/pkg/properties"
)

// RelationshipType names a partition of edges (spec.md GLOSSARY).
type RelationshipType string

// SingleTypeRelationships bundles everything the spec ties to one
// relationship type (spec.md §3): forward topology, optional inverse
// topology, their aligned property stores, and the schema entry the
// import pipeline inferred.
//
// §9 Open Question resolved: there is no hard-coded empty-type sentinel.
// An empty import simply has zero SingleTypeRelationships entries rather
// than a placeholder "REL" type.
type SingleTypeRelationships struct {
	Type               RelationshipType
	Direction          properties.Direction
	Forward            *Topology
	Inverse            *Topology
	ForwardProperties  *properties.RelationshipPropertyStore
	InverseProperties  *properties.RelationshipPropertyStore
	PropertySchemas    map[string]properties.PropertySchema
}

// Validate checks the invariants of spec.md §3: the forward topology is
// well-formed, every property column is aligned 1:1 with it, and an
// inverse topology (if present) has an identical element count.
func (r *SingleTypeRelationships) Validate() error {
	if err := r.Forward.Validate(); err != nil {
		return fmt.Errorf("csr: type %s forward topology: %w", r.Type, err)
	}
	if r.ForwardProperties != nil {
		for _, key := range r.ForwardProperties.Keys() {
			prop, _ := r.ForwardProperties.Get(key)
			if prop.Values.Len() != int64(r.Forward.ElementCount) {
				return fmt.Errorf("csr: type %s property %q length %d != element_count %d", r.Type, key, prop.Values.Len(), r.Forward.ElementCount)
			}
		}
	}
	if r.Inverse != nil {
		if err := r.Inverse.Validate(); err != nil {
			return fmt.Errorf("csr: type %s inverse topology: %w", r.Type, err)
		}
		if r.Inverse.ElementCount != r.Forward.ElementCount {
			return fmt.Errorf("csr: type %s inverse element_count %d != forward %d", r.Type, r.Inverse.ElementCount, r.Forward.ElementCount)
		}
	}
	return nil
}
