package properties

import "fmt"

// GraphPropertyStore holds graph-level (scalar-per-graph) properties:
// key -> (value_type, values). Each key maps to a length-1 Column so that
// reads go through the same conversion rules as node/relationship columns.
type GraphPropertyStore struct {
	entries map[string]*Column
}

func NewGraphPropertyStore() *GraphPropertyStore {
	return &GraphPropertyStore{entries: make(map[string]*Column)}
}

// Add fails if key already exists.
func (s *GraphPropertyStore) Add(key string, col *Column) error {
	if _, ok := s.entries[key]; ok {
		return fmt.Errorf("properties: graph property %q already exists", key)
	}
	s.entries[key] = col
	return nil
}

// Remove is idempotent.
func (s *GraphPropertyStore) Remove(key string) {
	delete(s.entries, key)
}

func (s *GraphPropertyStore) Get(key string) (*Column, bool) {
	c, ok := s.entries[key]
	return c, ok
}

func (s *GraphPropertyStore) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// NodeProperty bundles a node-level column with its declared schema.
type NodeProperty struct {
	Schema PropertySchema
	Values *Column
}

// NodePropertyStore maps key -> (value_type, state, default, values[N]).
type NodePropertyStore struct {
	nodeCount int64
	entries   map[string]*NodeProperty
}

func NewNodePropertyStore(nodeCount int64) *NodePropertyStore {
	return &NodePropertyStore{nodeCount: nodeCount, entries: make(map[string]*NodeProperty)}
}

// Add fails if key already exists or the column's length disagrees with
// nodeCount() (spec.md §4.3).
func (s *NodePropertyStore) Add(schema PropertySchema, col *Column) error {
	if _, ok := s.entries[schema.Key]; ok {
		return fmt.Errorf("properties: node property %q already exists", schema.Key)
	}
	if col.Len() != s.nodeCount {
		return fmt.Errorf("properties: node property %q has length %d, want nodeCount %d", schema.Key, col.Len(), s.nodeCount)
	}
	s.entries[schema.Key] = &NodeProperty{Schema: schema, Values: col}
	return nil
}

// Remove deletes both the column and its schema entry. Idempotent.
func (s *NodePropertyStore) Remove(key string) {
	delete(s.entries, key)
}

func (s *NodePropertyStore) Get(key string) (*NodeProperty, bool) {
	p, ok := s.entries[key]
	return p, ok
}

func (s *NodePropertyStore) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// RelationshipProperty bundles a relationship-level column with its
// aggregation function and schema; relationship properties are
// exclusively Double in this core (spec.md §3).
type RelationshipProperty struct {
	Schema      PropertySchema
	Aggregation string
	Values      *Column
}

// RelationshipPropertyStore maps key -> (Double, state, default,
// aggregation, values[E]).
type RelationshipPropertyStore struct {
	elementCount uint64
	entries      map[string]*RelationshipProperty
}

func NewRelationshipPropertyStore(elementCount uint64) *RelationshipPropertyStore {
	return &RelationshipPropertyStore{elementCount: elementCount, entries: make(map[string]*RelationshipProperty)}
}

func (s *RelationshipPropertyStore) Add(schema PropertySchema, aggregation string, values []float64) error {
	if _, ok := s.entries[schema.Key]; ok {
		return fmt.Errorf("properties: relationship property %q already exists", schema.Key)
	}
	if uint64(len(values)) != s.elementCount {
		return fmt.Errorf("properties: relationship property %q has length %d, want element_count %d", schema.Key, len(values), s.elementCount)
	}
	s.entries[schema.Key] = &RelationshipProperty{Schema: schema, Aggregation: aggregation, Values: NewDoubleColumn(values)}
	return nil
}

func (s *RelationshipPropertyStore) Remove(key string) {
	delete(s.entries, key)
}

func (s *RelationshipPropertyStore) Get(key string) (*RelationshipProperty, bool) {
	p, ok := s.entries[key]
	return p, ok
}

func (s *RelationshipPropertyStore) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

func (s *RelationshipPropertyStore) ElementCount() uint64 { return s.elementCount }
