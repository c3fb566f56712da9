package graphstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/csrgraph/graphctl/pkg/csr"
	gerrors "github.com/csrgraph/graphctl/pkg/errors"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/properties"
	"github.com/csrgraph/graphctl/pkg/utils"
)

// DeletionResult reports what deleteRelationships removed (spec.md §4.4).
type DeletionResult struct {
	DeletedRelationships int64
	DeletedProperties    map[string]int64
}

// GraphStore is the CSR graph store aggregate of spec.md §4.4: an immutable
// topology/idmap pair produced once by Build, plus mutable property stores
// and schema that every add/remove operation updates atomically through
// mutate(), bumping modificationTime.
type GraphStore struct {
	databaseInfo DatabaseInfo
	capabilities Capabilities
	concurrency  int

	idMap idmap.IdMap
	clock utils.Clock

	mu         sync.RWMutex
	relByType  map[string]*csr.SingleTypeRelationships
	nodeProps  *properties.NodePropertyStore
	graphProps *properties.GraphPropertyStore
	schema     *properties.GraphSchema

	creationTime     time.Time
	modificationTime time.Time
}

// nodeCount returns the store's node count without acquiring mu (callers
// already hold it, or it is read-only and the idmap is immutable).
func (gs *GraphStore) nodeCount() int64 { return gs.idMap.NodeCount() }

// NodeCount returns the total number of nodes.
func (gs *GraphStore) NodeCount() int64 { return gs.nodeCount() }

// DatabaseInfo returns the store's originating database/dataset metadata.
func (gs *GraphStore) DatabaseInfo() DatabaseInfo { return gs.databaseInfo }

// Capabilities returns what the store was built to support.
func (gs *GraphStore) Capabilities() Capabilities { return gs.capabilities }

// CreationTime returns when Build() produced this store.
func (gs *GraphStore) CreationTime() time.Time { return gs.creationTime }

// ModificationTime returns the timestamp of the most recent mutation.
func (gs *GraphStore) ModificationTime() time.Time {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.modificationTime
}

// Schema returns the store's current schema. Callers must not mutate the
// returned value; it is a live reference guarded by the store's mutex.
func (gs *GraphStore) Schema() *properties.GraphSchema {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.schema
}

// RelationshipTypes returns the declared relationship type names.
func (gs *GraphStore) RelationshipTypes() []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	types := make([]string, 0, len(gs.relByType))
	for t := range gs.relByType {
		types = append(types, t)
	}
	return types
}

// HasRelationshipType reports whether relType is present.
func (gs *GraphStore) HasRelationshipType(relType string) bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	_, ok := gs.relByType[relType]
	return ok
}

// RelationshipCount returns the total relationship count, or the count for
// one type if relType is non-empty.
func (gs *GraphStore) RelationshipCount(relType string) int64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	if relType != "" {
		rel, ok := gs.relByType[relType]
		if !ok {
			return 0
		}
		return int64(rel.Forward.ElementCount)
	}
	var total int64
	for _, rel := range gs.relByType {
		total += int64(rel.Forward.ElementCount)
	}
	return total
}

// HasRelationshipProperty reports whether relType carries a property key.
func (gs *GraphStore) HasRelationshipProperty(relType, key string) bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	rel, ok := gs.relByType[relType]
	if !ok || rel.ForwardProperties == nil {
		return false
	}
	_, ok = rel.ForwardProperties.Get(key)
	return ok
}

// RelationshipPropertyKeys returns the property keys declared for relType.
func (gs *GraphStore) RelationshipPropertyKeys(relType string) []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	rel, ok := gs.relByType[relType]
	if !ok || rel.ForwardProperties == nil {
		return nil
	}
	return rel.ForwardProperties.Keys()
}

// mutate runs fn under the write lock, then bumps modificationTime. Every
// add*/remove* operation routes through this single guard (spec.md §4.4:
// "a single internal guard ... applies the mutation to store and schema
// atomically, and updates modificationTime").
func (gs *GraphStore) mutate(fn func() error) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	gs.modificationTime = gs.clock.Now()
	return nil
}

// AddNodeLabel declares a new node label, idempotent if already present.
func (gs *GraphStore) AddNodeLabel(label idmap.NodeLabel) error {
	return gs.mutate(func() error {
		gs.idMap.AddNodeLabel(label)
		return nil
	})
}

// AddNodeProperty inserts col under schema.Key, failing on a duplicate key
// or a length mismatch against nodeCount() (spec.md §4.3/§4.4).
func (gs *GraphStore) AddNodeProperty(schema properties.PropertySchema, col *properties.Column) error {
	return gs.mutate(func() error {
		if err := gs.nodeProps.Add(schema, col); err != nil {
			return gerrors.Wrap(gerrors.CodeDomainViolation, "add node property", err)
		}
		gs.schema.AddNodeProperty("*", schema)
		return nil
	})
}

// RemoveNodeProperty deletes key's column and schema entry. Idempotent.
func (gs *GraphStore) RemoveNodeProperty(key string) error {
	return gs.mutate(func() error {
		gs.nodeProps.Remove(key)
		gs.schema.RemoveNodeProperty("*", key)
		return nil
	})
}

// NodeProperty returns the node property column for key.
func (gs *GraphStore) NodeProperty(key string) (*properties.NodeProperty, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.nodeProps.Get(key)
}

// AddRelationshipType declares a relationship type's CSR data, failing if
// the type already exists.
func (gs *GraphStore) AddRelationshipType(rel *csr.SingleTypeRelationships) error {
	return gs.mutate(func() error {
		if _, ok := gs.relByType[string(rel.Type)]; ok {
			return gerrors.New(gerrors.CodeDomainViolation, fmt.Sprintf("relationship type %q already exists", rel.Type))
		}
		gs.relByType[string(rel.Type)] = rel
		gs.schema.AddRelationshipType(string(rel.Type), rel.Direction)
		for key, ps := range rel.PropertySchemas {
			gs.schema.AddRelationshipProperty(string(rel.Type), properties.PropertySchema{Key: key, ValueType: ps.ValueType, State: ps.State})
		}
		return nil
	})
}

// DeleteRelationships drops relType's topology, properties and schema
// entry, returning a count of what was removed (spec.md §4.4).
func (gs *GraphStore) DeleteRelationships(relType string) (DeletionResult, error) {
	var result DeletionResult
	err := gs.mutate(func() error {
		rel, ok := gs.relByType[relType]
		if !ok {
			return gerrors.New(gerrors.CodeNotFound, fmt.Sprintf("relationship type %q not found", relType))
		}
		result.DeletedRelationships = int64(rel.Forward.ElementCount)
		result.DeletedProperties = make(map[string]int64)
		if rel.ForwardProperties != nil {
			for _, key := range rel.ForwardProperties.Keys() {
				result.DeletedProperties[key] = int64(rel.Forward.ElementCount)
			}
		}
		delete(gs.relByType, relType)
		gs.schema.RemoveRelationshipType(relType)
		return nil
	})
	return result, err
}
