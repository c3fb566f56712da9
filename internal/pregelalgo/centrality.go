// Package pregelalgo holds example pregel.Computation implementations used
// by cmd/graphctl's run subcommand. pkg/pregel itself stays algorithm-free;
// concrete algorithms are consumers of its Computation interface.
package pregelalgo

import (
	"github.com/csrgraph/graphctl/pkg/gdsvalue"
	"github.com/csrgraph/graphctl/pkg/pregel"
)

const rankKey = "rank"

// dampingFactor weights the sum of incoming messages when a vertex
// recomputes its rank; the other (1-dampingFactor) is spread uniformly as
// (1-dampingFactor)/nodeCount.
const dampingFactor = 0.85

// Centrality is a PageRank-style hot-path pass: every vertex starts at
// 1/nodeCount; from superstep 1 on, a vertex's rank becomes
// (1-dampingFactor)/nodeCount plus dampingFactor times the sum of its
// incoming messages, and each superstep every vertex with outgoing
// relationships sends rank/degree to each of its neighbors.
// It runs for Config.MaxIterations supersteps without vote-to-halt, the
// same fixed-iteration shape as a hot-path sampling pass over a call
// graph.
type Centrality struct{}

func (Centrality) Schema() *pregel.PregelSchema {
	return pregel.NewPregelSchema(pregel.Element{
		PropertyKey: rankKey,
		ValueType:   gdsvalue.Double,
		Visibility:  pregel.Public,
	})
}

func (Centrality) Init(ctx *pregel.InitContext) {
	ctx.SetNodeValue(rankKey, 1.0/float64(ctx.NodeCount()))
}

func (Centrality) Compute(ctx *pregel.ComputeContext) {
	sum := 0.0
	messages := ctx.Messages()
	for messages.HasNext() {
		sum += messages.NextUnchecked()
	}

	rank, _ := ctx.DoubleNodeValue(rankKey)
	if !ctx.IsInitialSuperstep() {
		rank = (1-dampingFactor)/float64(ctx.NodeCount()) + dampingFactor*sum
		ctx.SetNodeValue(rankKey, rank)
	}

	degree := ctx.Degree()
	if degree == 0 {
		return
	}
	ctx.SendToNeighbors(rank / float64(degree))
}
