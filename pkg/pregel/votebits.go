package pregel

import "github.com/csrgraph/graphctl/pkg/collections"

// voteBits tracks each vertex's halted/active state across supersteps
// (spec.md §4.7): set when a vertex calls VoteToHalt, cleared when it
// receives a message so it is rescheduled next superstep.
type voteBits struct {
	bits *collections.AtomicBitset
	size int
}

func newVoteBits(nodeCount int64) *voteBits {
	return &voteBits{bits: collections.NewAtomicBitset(int(nodeCount)), size: int(nodeCount)}
}

func (v *voteBits) set(nodeId int64)   { v.bits.Set(int(nodeId)) }
func (v *voteBits) clear(nodeId int64) { v.bits.Clear(int(nodeId)) }
func (v *voteBits) isSet(nodeId int64) bool { return v.bits.Test(int(nodeId)) }

// allSet reports whether every vertex has voted to halt (spec.md §4.7
// convergence: "voteBits.allSet() && no messages sent").
func (v *voteBits) allSet() bool { return v.bits.Count() == v.size }
