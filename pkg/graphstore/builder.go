package graphstore

import (
	"strings"

	"github.com/csrgraph/graphctl/pkg/csr"
	gerrors "github.com/csrgraph/graphctl/pkg/errors"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/properties"
	"github.com/csrgraph/graphctl/pkg/utils"
)

// Builder assembles a GraphStore from its required components, validating
// presence before build() (spec.md §4.4: "Required fields: databaseInfo,
// capabilities, schema, nodes, relationshipImportResult, concurrency").
type Builder struct {
	databaseInfo  *DatabaseInfo
	capabilities  *Capabilities
	schema        *properties.GraphSchema
	idMap         idmap.IdMap
	nodeProps     *properties.NodePropertyStore
	graphProps    *properties.GraphPropertyStore
	relationships []*csr.SingleTypeRelationships
	concurrency   int
	clock         utils.Clock
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) DatabaseInfo(info DatabaseInfo) *Builder { b.databaseInfo = &info; return b }
func (b *Builder) Capabilities(caps Capabilities) *Builder { b.capabilities = &caps; return b }
func (b *Builder) Schema(schema *properties.GraphSchema) *Builder { b.schema = schema; return b }
func (b *Builder) Nodes(idMap idmap.IdMap) *Builder { b.idMap = idMap; return b }
func (b *Builder) Concurrency(n int) *Builder { b.concurrency = n; return b }

func (b *Builder) NodeProperties(store *properties.NodePropertyStore) *Builder {
	b.nodeProps = store
	return b
}

func (b *Builder) GraphProperties(store *properties.GraphPropertyStore) *Builder {
	b.graphProps = store
	return b
}

// Clock injects the clock used for creationTime/modificationTime (spec.md
// §9 Open Question: a monotonic clock is injected rather than read from a
// process-wide singleton). Defaults to utils.RealClock when not set.
func (b *Builder) Clock(clock utils.Clock) *Builder {
	b.clock = clock
	return b
}

// RelationshipImportResult adds one imported relationship type to the
// store-to-be.
func (b *Builder) RelationshipImportResult(rel *csr.SingleTypeRelationships) *Builder {
	b.relationships = append(b.relationships, rel)
	return b
}

// Build validates that every required field was supplied and assembles the
// immutable topology/idmap pair plus initial mutable stores. On failure it
// returns a domain error naming every missing field (spec.md §4.4: "build()
// returns a GraphStore or fails with a list of missing fields").
func (b *Builder) Build() (*GraphStore, error) {
	var missing []string
	if b.databaseInfo == nil {
		missing = append(missing, "databaseInfo")
	}
	if b.capabilities == nil {
		missing = append(missing, "capabilities")
	}
	if b.schema == nil {
		missing = append(missing, "schema")
	}
	if b.idMap == nil {
		missing = append(missing, "nodes")
	}
	if b.relationships == nil {
		missing = append(missing, "relationshipImportResult")
	}
	if b.concurrency <= 0 {
		missing = append(missing, "concurrency")
	}
	if len(missing) > 0 {
		return nil, gerrors.New(gerrors.CodeDomainViolation, "graphstore builder missing required fields: "+strings.Join(missing, ", "))
	}

	nodeProps := b.nodeProps
	if nodeProps == nil {
		nodeProps = properties.NewNodePropertyStore(b.idMap.NodeCount())
	}
	graphProps := b.graphProps
	if graphProps == nil {
		graphProps = properties.NewGraphPropertyStore()
	}

	relByType := make(map[string]*csr.SingleTypeRelationships, len(b.relationships))
	for _, rel := range b.relationships {
		if err := rel.Validate(); err != nil {
			return nil, gerrors.Wrap(gerrors.CodeDomainViolation, "relationship type failed validation", err)
		}
		if _, dup := relByType[string(rel.Type)]; dup {
			return nil, gerrors.New(gerrors.CodeDomainViolation, "duplicate relationship type "+string(rel.Type))
		}
		relByType[string(rel.Type)] = rel
		b.schema.AddRelationshipType(string(rel.Type), rel.Direction)
		for key, ps := range rel.PropertySchemas {
			b.schema.AddRelationshipProperty(string(rel.Type), properties.PropertySchema{Key: key, ValueType: ps.ValueType, State: ps.State})
		}
	}

	clock := b.clock
	if clock == nil {
		clock = utils.NewRealClock()
	}
	now := clock.Now()
	return &GraphStore{
		databaseInfo:     *b.databaseInfo,
		capabilities:     *b.capabilities,
		concurrency:      b.concurrency,
		idMap:            b.idMap,
		clock:            clock,
		relByType:        relByType,
		nodeProps:        nodeProps,
		graphProps:       graphProps,
		schema:           b.schema,
		creationTime:     now,
		modificationTime: now,
	}, nil
}
