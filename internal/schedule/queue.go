package schedule

import "container/heap"

// eventHeap is the container/heap.Interface implementation, grounded on the
// slice-backed EventQueue pattern used for time-ordered dispatch in this
// pack's reference simulators, extended with the Seq tie-breaker spec §5
// requires for deterministic replay (bare time comparison alone is not a
// stable order when two events share a timestamp).
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Seq < h[j].Seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Queue is a time-ordered event queue with deterministic tie-breaking.
type Queue struct {
	heap eventHeap
	seq  uint64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.heap)
	return q
}

// Push enqueues e, stamping it with the next insertion sequence number.
func (q *Queue) Push(e *Event) {
	e.Seq = q.seq
	q.seq++
	heap.Push(&q.heap, e)
}

// Peek returns the earliest event without removing it, or nil if empty.
func (q *Queue) Peek() *Event {
	if len(q.heap) == 0 {
		return nil
	}
	return q.heap[0]
}

// Pop removes and returns the earliest event, or nil if empty.
func (q *Queue) Pop() *Event {
	if len(q.heap) == 0 {
		return nil
	}
	return heap.Pop(&q.heap).(*Event)
}

// Len reports the number of pending events.
func (q *Queue) Len() int { return len(q.heap) }
