package pregel

import "sync"

type asyncQueue struct {
	mu   sync.Mutex
	data []float64
	head int
	tail int
}

func (q *asyncQueue) push(msg float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tail == len(q.data) {
		q.grow()
	}
	q.data[q.tail] = msg
	q.tail++
}

// grow doubles capacity (spec.md §4.6 "Queue growth ... doubles"), called
// with the lock already held.
func (q *asyncQueue) grow() {
	newCap := len(q.data) * 2
	if newCap == 0 {
		newCap = 4
	}
	newData := make([]float64, newCap)
	copy(newData, q.data[q.head:q.tail])
	q.tail -= q.head
	q.head = 0
	q.data = newData
	if q.tail > len(q.data) {
		q.tail = len(q.data)
	}
}

// compact shifts the live range to the array start once head exceeds 25%
// of capacity, or resets to (0,0) when the queue has drained (spec.md
// §4.6).
func (q *asyncQueue) compact() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == q.tail {
		q.head, q.tail = 0, 0
		return
	}
	if len(q.data) > 0 && q.head > len(q.data)/4 {
		live := q.tail - q.head
		copy(q.data, q.data[q.head:q.tail])
		q.head = 0
		q.tail = live
	}
}

// drain returns the currently live messages and advances head past them,
// consuming them (spec.md §4.6: "iterator consumes from head, advancing
// it").
func (q *asyncQueue) drain() []float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	live := append([]float64(nil), q.data[q.head:q.tail]...)
	q.head = q.tail
	return live
}

// AsyncMessenger is the single-queue-per-vertex messenger of spec.md §4.6.
// Unlike SyncMessenger it never double-buffers: a message sent during
// superstep k is visible to its destination the same superstep if that
// vertex has not yet been scheduled, and the next superstep otherwise
// (spec.md §8 scenario 5).
type AsyncMessenger struct {
	queues []*asyncQueue
}

// NewAsyncMessenger allocates empty queues for nodeCount vertices.
func NewAsyncMessenger(nodeCount int64) *AsyncMessenger {
	queues := make([]*asyncQueue, nodeCount)
	for i := range queues {
		queues[i] = &asyncQueue{}
	}
	return &AsyncMessenger{queues: queues}
}

func (m *AsyncMessenger) InitIteration(i int) {
	for _, q := range m.queues {
		q.compact()
	}
}

func (m *AsyncMessenger) SendTo(src, dst int64, msg float64) error {
	if err := rejectNaN(msg); err != nil {
		return err
	}
	m.queues[dst].push(msg)
	return nil
}

func (m *AsyncMessenger) MessageIterator() *MessageIterator { return &MessageIterator{} }

func (m *AsyncMessenger) InitMessageIterator(it *MessageIterator, nodeId int64, isFirstIteration bool) {
	if isFirstIteration {
		it.values = nil
		it.pos = 0
		return
	}
	it.values = m.queues[nodeId].drain()
	it.pos = 0
}

func (m *AsyncMessenger) Release() {
	m.queues = nil
}

var _ Messenger = (*AsyncMessenger)(nil)
