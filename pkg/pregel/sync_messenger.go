package pregel

import "sync"

// SyncMessenger is the synchronous double-buffered queue messenger of
// spec.md §4.6: sendTo appends to Q_write[dst]; initIteration swaps
// Q_read/Q_write and clears the new write buffer, so a message sent during
// superstep k is visible only in k+1.
//
// Per-vertex appends are serialized by a per-vertex mutex rather than the
// reference system's lock-free CAS grow protocol; within one superstep
// many partitions may call SendTo concurrently for different source
// vertices that happen to target the same destination, and Go's mutex is
// the idiomatic tool the teacher's own code reaches for (see
// pkg/collections.AtomicBitset's mutex-guarded grow) rather than a
// hand-rolled lock-free queue.
type SyncMessenger struct {
	mu      []sync.Mutex
	qRead   [][]float64
	qWrite  [][]float64
}

// NewSyncMessenger allocates empty read/write queues for nodeCount vertices.
func NewSyncMessenger(nodeCount int64) *SyncMessenger {
	n := int(nodeCount)
	return &SyncMessenger{
		mu:     make([]sync.Mutex, n),
		qRead:  make([][]float64, n),
		qWrite: make([][]float64, n),
	}
}

func (m *SyncMessenger) InitIteration(i int) {
	m.qRead, m.qWrite = m.qWrite, m.qRead
	for v := range m.qWrite {
		m.qWrite[v] = m.qWrite[v][:0]
	}
}

func (m *SyncMessenger) SendTo(src, dst int64, msg float64) error {
	if err := rejectNaN(msg); err != nil {
		return err
	}
	m.mu[dst].Lock()
	m.qWrite[dst] = append(m.qWrite[dst], msg)
	m.mu[dst].Unlock()
	return nil
}

func (m *SyncMessenger) MessageIterator() *MessageIterator { return &MessageIterator{} }

func (m *SyncMessenger) InitMessageIterator(it *MessageIterator, nodeId int64, isFirstIteration bool) {
	if isFirstIteration {
		it.values = nil
		it.pos = 0
		return
	}
	it.values = m.qRead[nodeId]
	it.pos = 0
}

func (m *SyncMessenger) Release() {
	m.qRead = nil
	m.qWrite = nil
}

var _ Messenger = (*SyncMessenger)(nil)
