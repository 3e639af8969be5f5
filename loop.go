package pressable

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopClosed is returned when work is posted to a closed Loop.
var ErrLoopClosed = errors.New("pressable: loop closed")

const loopQueueSize = 64

// Loop is a real-time Scheduler backed by a single goroutine. Every posted
// task and every timer callback runs on the goroutine executing Run, so they
// are serialized with each other.
//
// Post, Do and Close may be called from any goroutine. ScheduleOnce and
// Cancel must be called from tasks running on the loop.
type Loop struct {
	tasks     chan func()
	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// Tasks posted while tasks is full, in order. While non-empty every new
	// post goes here too.
	mu      sync.Mutex
	backlog []func()

	// Owned by the loop goroutine.
	nextID uint64
	timers map[uint64]*time.Timer
}

// NewLoop creates a loop. Call Run to start executing tasks.
func NewLoop() *Loop {
	return &Loop{
		tasks:  make(chan func(), loopQueueSize),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		timers: make(map[uint64]*time.Timer),
	}
}

// Run executes posted tasks until ctx is cancelled or Close is called. All
// timers still armed when Run returns are stopped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopTimers()
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
			l.drainBacklog()
		case <-l.wake:
			l.drainBacklog()
		}
	}
}

// drainBacklog runs overflow tasks once the channel has emptied. Tasks are
// popped one at a time so posts made while draining stay behind them.
func (l *Loop) drainBacklog() {
	for len(l.tasks) == 0 {
		select {
		case <-l.done:
			return
		default:
		}
		l.mu.Lock()
		if len(l.backlog) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.backlog[0]
		l.backlog[0] = nil
		l.backlog = l.backlog[1:]
		l.mu.Unlock()
		fn()
	}
}

// Post queues fn to run on the loop. It never blocks, so tasks may post
// further tasks. It reports false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	l.mu.Lock()
	if len(l.backlog) == 0 {
		select {
		case l.tasks <- fn:
			l.mu.Unlock()
			return true
		default:
		}
	}
	l.backlog = append(l.backlog, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		fn()
		close(finished)
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop. Tasks still queued are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// ScheduleOnce implements Scheduler. When the timer expires it posts back
// onto the loop, and the callback only runs if the handle is still armed.
func (l *Loop) ScheduleOnce(delay time.Duration, fn func()) TimerHandle {
	if delay < 0 {
		delay = 0
	}
	l.nextID++
	id := l.nextID
	l.timers[id] = time.AfterFunc(delay, func() {
		l.Post(func() {
			if _, ok := l.timers[id]; !ok {
				return
			}
			delete(l.timers, id)
			fn()
		})
	})
	return TimerHandle{id: id}
}

// Cancel implements Scheduler.
func (l *Loop) Cancel(h TimerHandle) {
	t, ok := l.timers[h.id]
	if !ok {
		return
	}
	t.Stop()
	delete(l.timers, h.id)
}

func (l *Loop) stopTimers() {
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
}
