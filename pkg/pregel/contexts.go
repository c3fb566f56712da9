package pregel

import (
	"fmt"

	"github.com/csrgraph/graphctl/pkg/graphstore"
)

// InitContext is handed to Computation.Init for every vertex during
// superstep 0 (spec.md §4.7): it exposes the graph shape and the node
// value store, but no messaging (there is nothing to receive yet).
type InitContext struct {
	graph     *graphstore.Graph
	nodeValue *NodeValue
	nodeId    int64
}

func (c *InitContext) NodeId() int64   { return c.nodeId }
func (c *InitContext) NodeCount() int64 { return c.graph.NodeCount() }
func (c *InitContext) Degree() int64   { return c.graph.Degree(c.nodeId) }

func (c *InitContext) SetNodeValue(key string, value float64) error {
	return c.nodeValue.SetDoubleValue(key, c.nodeId, value)
}

func (c *InitContext) SetNodeLongValue(key string, value int64) error {
	return c.nodeValue.SetLongValue(key, c.nodeId, value)
}

// ComputeContext is handed to Computation.Compute for every active vertex
// in every superstep (spec.md §4.7/§6): message access, node value
// access, outgoing sendTo variants, and voteToHalt.
type ComputeContext struct {
	graph       *graphstore.Graph
	computation Computation
	nodeValue   *NodeValue
	messenger   Messenger
	voteBits    *voteBits
	nodeId      int64
	superstep   int
	messages    *MessageIterator
	halted      bool
	sentAny     bool
}

func (c *ComputeContext) NodeId() int64    { return c.nodeId }
func (c *ComputeContext) Superstep() int   { return c.superstep }
func (c *ComputeContext) NodeCount() int64 { return c.graph.NodeCount() }
func (c *ComputeContext) Degree() int64    { return c.graph.Degree(c.nodeId) }
func (c *ComputeContext) IsInitialSuperstep() bool { return c.superstep == 0 }

// Messages returns the iterator over this superstep's inbox for the
// current vertex.
func (c *ComputeContext) Messages() *MessageIterator { return c.messages }

func (c *ComputeContext) DoubleNodeValue(key string) (float64, error) {
	return c.nodeValue.DoubleValue(key, c.nodeId)
}

func (c *ComputeContext) SetNodeValue(key string, value float64) error {
	return c.nodeValue.SetDoubleValue(key, c.nodeId, value)
}

func (c *ComputeContext) LongNodeValue(key string) (int64, error) {
	return c.nodeValue.LongValue(key, c.nodeId)
}

func (c *ComputeContext) SetNodeLongValue(key string, value int64) error {
	return c.nodeValue.SetLongValue(key, c.nodeId, value)
}

// SendTo sends msg directly to the given target vertex.
func (c *ComputeContext) SendTo(target int64, msg float64) error {
	if err := c.messenger.SendTo(c.nodeId, target, msg); err != nil {
		return fmt.Errorf("pregel: node %d: %w", c.nodeId, err)
	}
	c.voteBits.clear(target)
	c.sentAny = true
	return nil
}

// SendToNeighbors sends msg to every outgoing neighbor of the current
// vertex (spec.md §4.7 sendToNeighbors). When the graph has a relationship
// weight property bound, each edge's weight is folded into the message via
// the computation's ApplyRelationshipWeight, if it implements one, or plain
// multiplication otherwise.
func (c *ComputeContext) SendToNeighbors(msg float64) error {
	if c.graph.BoundPropertyKey() == "" {
		return c.sendToNeighborsUnweighted(msg)
	}
	apply := defaultApplyRelationshipWeight
	if applier, ok := c.computation.(RelationshipWeightApplier); ok {
		apply = applier.ApplyRelationshipWeight
	}
	var sendErr error
	c.graph.ForEachRelationshipWeighted(c.nodeId, 1.0, func(target int64, weight float64) bool {
		if err := c.SendTo(target, apply(msg, weight)); err != nil {
			sendErr = err
			return false
		}
		return true
	})
	return sendErr
}

func (c *ComputeContext) sendToNeighborsUnweighted(msg float64) error {
	var sendErr error
	c.graph.ForEachRelationship(c.nodeId, func(target int64) bool {
		if err := c.SendTo(target, msg); err != nil {
			sendErr = err
			return false
		}
		return true
	})
	return sendErr
}

func defaultApplyRelationshipWeight(msg, weight float64) float64 { return msg * weight }

// SendToIncomingNeighbors sends msg to every vertex with an edge pointing
// at the current vertex; requires an inverse-indexed graph (spec.md §4.7
// sendToIncomingNeighbors).
func (c *ComputeContext) SendToIncomingNeighbors(msg float64) error {
	if !c.graph.Characteristics().InverseIndexed {
		return fmt.Errorf("pregel: sendToIncomingNeighbors requires an inverse-indexed graph")
	}
	var sendErr error
	c.graph.ForEachInverseRelationship(c.nodeId, func(source int64) bool {
		if err := c.SendTo(source, msg); err != nil {
			sendErr = err
			return false
		}
		return true
	})
	return sendErr
}

// VoteToHalt marks the current vertex inactive; it is woken again only by
// an incoming message in a later superstep (spec.md §4.7).
func (c *ComputeContext) VoteToHalt() {
	c.halted = true
	c.voteBits.set(c.nodeId)
}

// MasterContext is handed to MasterCompute.Compute once per superstep,
// after every vertex's Compute has run (spec.md §4.7/§6): it can inspect
// aggregated node values and force early convergence.
type MasterContext struct {
	graph        *graphstore.Graph
	nodeValue    *NodeValue
	superstep    int
	didConverge  bool
}

func (c *MasterContext) Superstep() int    { return c.superstep }
func (c *MasterContext) NodeCount() int64  { return c.graph.NodeCount() }

func (c *MasterContext) DoubleNodeValue(key string, nodeId int64) (float64, error) {
	return c.nodeValue.DoubleValue(key, nodeId)
}

func (c *MasterContext) LongNodeValue(key string, nodeId int64) (int64, error) {
	return c.nodeValue.LongValue(key, nodeId)
}

// SetDidConverge allows the master step to force termination regardless
// of voteBits/message state (spec.md §6 masterCompute()).
func (c *MasterContext) SetDidConverge(converge bool) { c.didConverge = converge }
