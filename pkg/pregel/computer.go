package pregel

import (
	"context"

	gerrors "github.com/csrgraph/graphctl/pkg/errors"
	"github.com/csrgraph/graphctl/pkg/graphstore"
	"github.com/csrgraph/graphctl/pkg/parallel"
	"github.com/csrgraph/graphctl/pkg/partition"
	"github.com/csrgraph/graphctl/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("graphctl/pregel")

// Computation is the vertex-centric program a Pregel run executes
// (spec.md §6): it declares the node-value schema and provides the two
// per-vertex callbacks invoked during superstep 0 and every subsequent
// superstep.
type Computation interface {
	Schema() *PregelSchema
	Init(ctx *InitContext)
	Compute(ctx *ComputeContext)
}

// MasterCompute runs once per superstep after every vertex's Compute has
// returned (spec.md §6). Optional: a Pregel run with a nil MasterCompute
// skips this step entirely.
type MasterCompute interface {
	Compute(ctx *MasterContext)
}

// RelationshipWeightApplier is implemented by computations that want to
// combine a sendToNeighbors message with the per-edge relationship weight
// themselves (spec.md §4.7 applyRelationshipWeight). Optional: when a
// Computation doesn't implement it but the graph has a relationship weight
// property bound, SendToNeighbors multiplies the message by the weight.
type RelationshipWeightApplier interface {
	ApplyRelationshipWeight(msg, weight float64) float64
}

// MessengerKind selects which spec.md §4.6 messenger backs a run.
type MessengerKind string

const (
	MessengerSync     MessengerKind = "sync"
	MessengerAsync    MessengerKind = "async"
	MessengerReducing MessengerKind = "reducing"
)

// Config configures one Pregel run.
type Config struct {
	MaxIterations     int
	Concurrency       int
	MinBatchSize      int64
	MessengerType     MessengerKind
	Reducer           Reducer
	TrackSenders      bool
	PartitionStrategy string
	// NumberAlignedTo and MaxPartitionSize only apply when PartitionStrategy
	// is "number_aligned" (spec.md §4.5).
	NumberAlignedTo  int64
	MaxPartitionSize int64
	Logger           utils.Logger
}

// PregelResult is what every run produces (spec.md §6): the final
// node-value store, the number of supersteps actually executed, and
// whether the run reached natural convergence rather than exhausting
// MaxIterations.
type PregelResult struct {
	NodeValues    *NodeValue
	RanIterations int
	DidConverge   bool
}

// Pregel drives the INIT -> ITERATION_k -> MASTER_COMPUTE_k ->
// convergence state machine of spec.md §4.7 over a fixed graph and
// computation.
type Pregel struct {
	graph         *graphstore.Graph
	computation   Computation
	masterCompute MasterCompute
	config        Config
}

// New builds a Pregel run. masterCompute may be nil.
func New(graph *graphstore.Graph, computation Computation, masterCompute MasterCompute, config Config) *Pregel {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = 20
	}
	if config.MinBatchSize <= 0 {
		config.MinBatchSize = 1
	}
	if config.NumberAlignedTo <= 0 {
		config.NumberAlignedTo = 64
	}
	if config.MaxPartitionSize <= 0 {
		config.MaxPartitionSize = 1 << 20
	}
	if config.Logger == nil {
		config.Logger = &utils.NullLogger{}
	}
	return &Pregel{graph: graph, computation: computation, masterCompute: masterCompute, config: config}
}

func (p *Pregel) newMessenger(nodeCount int64) (Messenger, error) {
	switch p.config.MessengerType {
	case MessengerAsync:
		return NewAsyncMessenger(nodeCount), nil
	case MessengerReducing:
		reducer := p.config.Reducer
		if reducer == nil {
			reducer = SumReducer{}
		}
		return NewReducingMessenger(nodeCount, reducer, p.config.TrackSenders), nil
	case MessengerSync, "":
		return NewSyncMessenger(nodeCount), nil
	default:
		return nil, gerrors.New(gerrors.CodeDomainViolation, "unknown pregel messenger type: "+string(p.config.MessengerType))
	}
}

func (p *Pregel) partitions(nodeCount int64) ([]partition.Partition, error) {
	switch p.config.PartitionStrategy {
	case "degree":
		return partition.Degree(nodeCount, p.config.Concurrency, p.config.MinBatchSize, func(v int64) int64 {
			return p.graph.Degree(v)
		}), nil
	case "number_aligned":
		return partition.NumberAligned(nodeCount, p.config.Concurrency, p.config.NumberAlignedTo, p.config.MaxPartitionSize)
	case "range", "":
		return partition.Range(nodeCount, p.config.Concurrency, p.config.MinBatchSize), nil
	default:
		return nil, gerrors.New(gerrors.CodeDomainViolation, "unknown pregel partition strategy: "+p.config.PartitionStrategy)
	}
}

// Run executes the state machine to convergence or MaxIterations,
// whichever comes first, honoring cooperative cancellation on ctx at
// superstep boundaries (spec.md §6: "termination ... cooperative,
// checked at superstep boundaries").
func (p *Pregel) Run(ctx context.Context) (*PregelResult, error) {
	ctx, runSpan := tracer.Start(ctx, "pregel.run", trace.WithAttributes(
		attribute.Int64("node_count", p.graph.NodeCount()),
		attribute.String("messenger_type", string(p.config.MessengerType)),
	))
	defer runSpan.End()

	nodeCount := p.graph.NodeCount()
	schema := p.computation.Schema()
	nodeValue := NewNodeValue(schema, nodeCount)
	messenger, err := p.newMessenger(nodeCount)
	if err != nil {
		return nil, err
	}
	defer messenger.Release()

	vb := newVoteBits(nodeCount)

	for v := int64(0); v < nodeCount; v++ {
		p.computation.Init(&InitContext{graph: p.graph, nodeValue: nodeValue, nodeId: v})
	}

	parts, err := p.partitions(nodeCount)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.CodeDomainViolation, "pregel: failed to build partitions", err)
	}
	pool := parallel.NewWorkerPool[partition.Partition, bool](parallel.DefaultPoolConfig().WithWorkers(p.config.Concurrency))

	superstep := 0
	didConverge := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, gerrors.Wrap(gerrors.CodeCancelled, "pregel run cancelled", err)
		}

		_, superstepSpan := tracer.Start(ctx, "pregel.superstep", trace.WithAttributes(attribute.Int("superstep", superstep)))

		messenger.InitIteration(superstep)
		isFirst := superstep == 0
		anySent := 0

		results := pool.ExecuteFunc(ctx, parts, func(ctx context.Context, part partition.Partition) (bool, error) {
			sentInPartition := false
			it := messenger.MessageIterator()
			for v := part.Start; v < part.End(); v++ {
				messenger.InitMessageIterator(it, v, isFirst)
				if !isFirst && vb.isSet(v) && it.IsEmpty() {
					continue
				}
				vb.clear(v)
				cctx := &ComputeContext{
					graph:       p.graph,
					computation: p.computation,
					nodeValue:   nodeValue,
					messenger:   messenger,
					voteBits:    vb,
					nodeId:      v,
					superstep:   superstep,
					messages:    it,
				}
				p.computation.Compute(cctx)
				if cctx.sentAny {
					sentInPartition = true
				}
			}
			return sentInPartition, nil
		})

		for _, r := range results {
			if r.Error != nil {
				return nil, gerrors.Wrap(gerrors.CodeAssertion, "pregel partition failed", r.Error)
			}
			if r.Result {
				anySent++
			}
		}

		if p.masterCompute != nil {
			mctx := &MasterContext{graph: p.graph, nodeValue: nodeValue, superstep: superstep}
			p.masterCompute.Compute(mctx)
			if mctx.didConverge {
				didConverge = true
			}
		}

		p.config.Logger.Debug("pregel superstep complete", "superstep", superstep, "messagesSent", anySent > 0)
		superstepSpan.End()

		superstep++
		if didConverge || (vb.allSet() && anySent == 0) || superstep >= p.config.MaxIterations {
			break
		}
	}

	return &PregelResult{NodeValues: nodeValue, RanIterations: superstep, DidConverge: didConverge || (vb.allSet() && superstep < p.config.MaxIterations)}, nil
}
