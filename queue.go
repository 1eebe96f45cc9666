package tempo

import (
	"container/heap"
	"time"
)

// entry is a timer's pending occurrence in the schedule queue. A timer has
// at most one live entry at any moment.
type entry struct {
	timer  *Timer
	fireAt time.Time
	seq    uint64
	index  int // heap index, -1 once removed
}

// scheduleQueue orders pending entries by (fireAt, seq). The sequence
// number is assigned at insertion, so entries due at the same instant fire
// in the order they were scheduled.
type scheduleQueue struct {
	entries entryHeap
	nextSeq uint64
}

// schedule inserts a new entry for t at the given instant and returns it.
func (q *scheduleQueue) schedule(t *Timer, at time.Time) *entry {
	e := &entry{timer: t, fireAt: at, seq: q.nextSeq}
	q.nextSeq++
	heap.Push(&q.entries, e)
	return e
}

// remove deletes e from the queue. Removing an entry that was already
// popped or removed is a no-op.
func (q *scheduleQueue) remove(e *entry) {
	if e == nil || e.index < 0 {
		return
	}
	heap.Remove(&q.entries, e.index)
}

// peek returns the earliest entry without removing it, or nil if the
// queue is empty.
func (q *scheduleQueue) peek() *entry {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// pop removes and returns the earliest entry, or nil if the queue is
// empty.
func (q *scheduleQueue) pop() *entry {
	if len(q.entries) == 0 {
		return nil
	}
	return heap.Pop(&q.entries).(*entry)
}

func (q *scheduleQueue) len() int {
	return len(q.entries)
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].fireAt.Equal(h[j].fireAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].fireAt.Before(h[j].fireAt)
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old) - 1
	e := old[n]
	e.index = -1
	old[n] = nil
	*h = old[:n]
	return e
}
