// Package pregel implements the vertex-centric bulk-synchronous/asynchronous
// execution engine layered on the CSR graph store (spec.md §4.6, §4.7):
// pluggable messengers, the superstep state machine, per-vertex contexts
// and the PregelResult every run produces.
package pregel

import (
	"fmt"
	"math"
)

// Messenger is the common contract of spec.md §4.6 shared by the
// synchronous, asynchronous and reducing implementations.
type Messenger interface {
	// InitIteration prepares state for superstep i.
	InitIteration(i int)
	// SendTo records a message from src to dst, rejecting NaN.
	SendTo(src, dst int64, msg float64) error
	// MessageIterator allocates an iterator bound to this messenger.
	MessageIterator() *MessageIterator
	// InitMessageIterator re-points it at nodeId's inbox. During the first
	// superstep the inbox is always empty.
	InitMessageIterator(it *MessageIterator, nodeId int64, isFirstIteration bool)
	// Release frees internal storage.
	Release()
}

// SenderTracking is implemented by messengers that can report which
// sender produced the surviving message (the reducing messenger, when
// configured with sender tracking).
type SenderTracking interface {
	Sender(nodeId int64) int64
}

// MessageIterator walks one vertex's inbox for the current superstep. Its
// zero value is an empty iterator, which is what Messenger.MessageIterator
// returns; Messenger.InitMessageIterator points it at a vertex's inbox.
type MessageIterator struct {
	values []float64
	pos    int
}

// HasNext reports whether another message remains.
func (it *MessageIterator) HasNext() bool { return it.pos < len(it.values) }

// NextUnchecked returns the next message and advances the cursor. Callers
// must check HasNext first; it panics on exhaustion like a slice index
// would.
func (it *MessageIterator) NextUnchecked() float64 {
	v := it.values[it.pos]
	it.pos++
	return v
}

// IsEmpty reports whether the inbox has no messages at all.
func (it *MessageIterator) IsEmpty() bool { return len(it.values) == 0 }

func rejectNaN(msg float64) error {
	if math.IsNaN(msg) {
		return fmt.Errorf("pregel: sendTo rejects NaN messages")
	}
	return nil
}
