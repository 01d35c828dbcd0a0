// Package mainloop provides the single-consumer execution context that owns
// all list and connectivity state.
//
// Work is submitted with Post from any goroutine and executed in FIFO order by
// the goroutine running Run. Code running inside a posted function may touch
// loop-confined state without locking.
package mainloop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when work is submitted to a closed loop.
var ErrClosed = errors.New("mainloop: closed")

// Poster schedules work onto a serialized context.
type Poster interface {
	Post(fn func()) bool
}

// Loop is an unbounded FIFO of functions drained by a single goroutine.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{} // buffered, size 1
}

// New returns an empty loop. Call Run from exactly one goroutine.
func New() *Loop {
	return &Loop{
		tasks:  make([]func(), 0, 32),
		signal: make(chan struct{}, 1),
	}
}

// Post appends fn to the queue. It never blocks and returns false once the
// loop has been closed.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	l.tasks = append(l.tasks, fn)

	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// Sync posts fn and waits until it has run. It must not be called from inside
// the loop, or it deadlocks.
func (l *Loop) Sync(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work. Tasks already queued still run.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is cancelled, or until the loop is closed
// and empty.
func (l *Loop) Run(ctx context.Context) error {
	for {
		fn, ok, closed := l.next()
		if ok {
			fn()
			continue
		}
		if closed {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}
	}
}

func (l *Loop) next() (fn func(), ok, closed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) == 0 {
		return nil, false, l.closed
	}
	fn = l.tasks[0]
	l.tasks[0] = nil
	if len(l.tasks) == 1 {
		l.tasks = l.tasks[:0]
	} else {
		l.tasks = l.tasks[1:]
	}
	return fn, true, l.closed
}
