package pressable

import (
	"container/heap"
	"time"
)

// TimerHandle is an opaque token for one scheduled callback. The zero value
// refers to no timer and is safe to cancel.
type TimerHandle struct {
	id uint64
}

// Valid reports whether h was returned by a scheduler.
func (h TimerHandle) Valid() bool {
	return h.id != 0
}

// Scheduler runs single-shot delayed callbacks on the same logical thread
// that delivers pointer events. A callback never runs concurrently with an
// event handler.
type Scheduler interface {
	// ScheduleOnce queues fn to run after delay and returns immediately.
	ScheduleOnce(delay time.Duration, fn func()) TimerHandle
	// Cancel removes a callback that has not yet run. Cancelling a stale,
	// fired, unknown or zero handle is a no-op.
	Cancel(h TimerHandle)
}

// --- Virtual clock ---

type timerEntry struct {
	id  uint64
	due time.Duration
	fn  func()
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].id < h[j].id
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// TimerQueue is a deterministic Scheduler driven by an explicit clock.
// Frame-based hosts call Advance once per tick; tests and the script runner
// advance it by exact amounts.
//
// TimerQueue is not safe for concurrent use.
type TimerQueue struct {
	now     time.Duration
	nextID  uint64
	queue   timerHeap
	pending map[uint64]*timerEntry
}

// NewTimerQueue creates an empty queue with its clock at zero.
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{pending: make(map[uint64]*timerEntry)}
}

// Now returns the current virtual time.
func (q *TimerQueue) Now() time.Duration {
	return q.now
}

// Pending returns the number of armed callbacks.
func (q *TimerQueue) Pending() int {
	return len(q.pending)
}

// ScheduleOnce implements Scheduler. Negative delays are treated as zero.
func (q *TimerQueue) ScheduleOnce(delay time.Duration, fn func()) TimerHandle {
	if delay < 0 {
		delay = 0
	}
	q.nextID++
	e := &timerEntry{id: q.nextID, due: q.now + delay, fn: fn}
	q.pending[e.id] = e
	heap.Push(&q.queue, e)
	return TimerHandle{id: e.id}
}

// Cancel implements Scheduler. The heap entry is discarded lazily when it
// reaches the front.
func (q *TimerQueue) Cancel(h TimerHandle) {
	delete(q.pending, h.id)
}

// Advance moves the clock forward by d, running every callback that falls due
// in order of due time, then schedule order. Callbacks scheduled while
// advancing also run if they fall due inside the window.
func (q *TimerQueue) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	q.AdvanceTo(q.now + d)
}

// AdvanceTo moves the clock to t. Moving backwards is ignored.
func (q *TimerQueue) AdvanceTo(t time.Duration) {
	for len(q.queue) > 0 {
		e := q.queue[0]
		if e.due > t {
			break
		}
		heap.Pop(&q.queue)
		if _, ok := q.pending[e.id]; !ok {
			continue
		}
		delete(q.pending, e.id)
		if e.due > q.now {
			q.now = e.due
		}
		e.fn()
	}
	if t > q.now {
		q.now = t
	}
}
