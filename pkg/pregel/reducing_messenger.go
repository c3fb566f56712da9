package pregel

import (
	"math"
	"sync"
)

// Reducer folds messages sent to the same vertex within one superstep into
// a single value (spec.md §4.6/§6 "reducer() -> Reducer?").
type Reducer interface {
	Identity() float64
	Reduce(a, b float64) float64
}

// SumReducer reduces by addition.
type SumReducer struct{}

func (SumReducer) Identity() float64           { return 0 }
func (SumReducer) Reduce(a, b float64) float64 { return a + b }

// MinReducer reduces by minimum.
type MinReducer struct{}

func (MinReducer) Identity() float64 { return math.Inf(1) }
func (MinReducer) Reduce(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

// MaxReducer reduces by maximum.
type MaxReducer struct{}

func (MaxReducer) Identity() float64 { return math.Inf(-1) }
func (MaxReducer) Reduce(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

type reducingSlot struct {
	mu      sync.Mutex
	hasMsg  bool
	current float64
	sender  int64
}

// ReducingMessenger is the per-vertex-slot messenger of spec.md §4.6: each
// vertex holds (has_msg, current, sender?) and every SendTo folds into it
// via Reducer instead of queueing. When trackSenders is enabled, the
// sender of the surviving value is recorded, overwritten whenever a new
// message equals the post-reduce value (so MIN/MAX report a sender whose
// value equals the survivor).
type ReducingMessenger struct {
	slots        []*reducingSlot
	reducer      Reducer
	trackSenders bool
}

// NewReducingMessenger allocates one slot per vertex, folding with reducer.
func NewReducingMessenger(nodeCount int64, reducer Reducer, trackSenders bool) *ReducingMessenger {
	slots := make([]*reducingSlot, nodeCount)
	for i := range slots {
		slots[i] = &reducingSlot{sender: -1}
	}
	return &ReducingMessenger{slots: slots, reducer: reducer, trackSenders: trackSenders}
}

func (m *ReducingMessenger) InitIteration(i int) {
	// Slots are cleared as each vertex reads its message (see
	// InitMessageIterator), mirroring spec.md's "after a vertex reads its
	// message, has_msg[d] is cleared" rather than a bulk reset here.
}

func (m *ReducingMessenger) SendTo(src, dst int64, msg float64) error {
	if err := rejectNaN(msg); err != nil {
		return err
	}
	slot := m.slots[dst]
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if !slot.hasMsg {
		slot.hasMsg = true
		slot.current = msg
		slot.sender = src
	} else {
		slot.current = m.reducer.Reduce(slot.current, msg)
		if m.trackSenders && slot.current == msg {
			slot.sender = src
		}
	}
	return nil
}

func (m *ReducingMessenger) MessageIterator() *MessageIterator { return &MessageIterator{} }

func (m *ReducingMessenger) InitMessageIterator(it *MessageIterator, nodeId int64, isFirstIteration bool) {
	if isFirstIteration {
		it.values = nil
		it.pos = 0
		return
	}
	slot := m.slots[nodeId]
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.hasMsg {
		it.values = []float64{slot.current}
		slot.hasMsg = false
	} else {
		it.values = nil
	}
	it.pos = 0
}

// Sender returns the sender whose message survived the reduction for
// nodeId (spec.md §8: "with sender tracking the reported sender's value
// equals the aggregated value"), or -1 if sender tracking is disabled or
// no message arrived.
func (m *ReducingMessenger) Sender(nodeId int64) int64 {
	if !m.trackSenders {
		return -1
	}
	slot := m.slots[nodeId]
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.sender
}

func (m *ReducingMessenger) Release() {
	m.slots = nil
}

var (
	_ Messenger      = (*ReducingMessenger)(nil)
	_ SenderTracking = (*ReducingMessenger)(nil)
)
