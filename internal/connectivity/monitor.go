package connectivity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/mainloop"
)

var (
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("connectivity: monitor already started")
	// ErrStopped is returned by Start once the monitor has been stopped.
	ErrStopped = errors.New("connectivity: monitor stopped")
)

// Source observes network reachability. Watch emits the current status first
// and then every change until ctx is cancelled, at which point the channel is
// closed.
type Source interface {
	Watch(ctx context.Context) (<-chan bool, error)
}

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

// Monitor fans reachability changes out to subscribers. Subscriber
// bookkeeping and notification run only on the loop.
type Monitor struct {
	loop   mainloop.Poster
	source Source
	log    logrus.FieldLogger

	state     atomic.Int32
	connected atomic.Bool
	observed  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc

	// loop-confined
	subs []*Subscription
}

// NewMonitor builds a monitor that delivers on loop. A nil logger discards
// output.
func NewMonitor(loop mainloop.Poster, source Source, log logrus.FieldLogger) *Monitor {
	return &Monitor{loop: loop, source: source, log: logging.OrDiscard(log)}
}

// Start begins observation. A monitor is single use: once stopped it cannot
// be started again.
func (m *Monitor) Start(ctx context.Context) error {
	if !m.state.CompareAndSwap(stateIdle, stateRunning) {
		if m.state.Load() == stateStopped {
			return ErrStopped
		}
		return ErrAlreadyStarted
	}

	watchCtx, cancel := context.WithCancel(ctx)
	updates, err := m.source.Watch(watchCtx)
	if err != nil {
		cancel()
		m.state.Store(stateIdle)
		return fmt.Errorf("start path observer: %w", err)
	}

	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	go m.forward(updates)
	m.log.Debug("connectivity monitor started")
	return nil
}

// Stop cancels observation for good.
func (m *Monitor) Stop() {
	if m.state.Swap(stateStopped) == stateStopped {
		return
	}
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.log.Debug("connectivity monitor stopped")
}

// Connected reports the last observed status. It is false until the first
// observation arrives.
func (m *Monitor) Connected() bool {
	if m.state.Load() == stateIdle {
		return false
	}
	return m.connected.Load()
}

// Observed returns the last status and whether any observation has been
// delivered yet.
func (m *Monitor) Observed() (connected, ok bool) {
	if m.state.Load() == stateIdle {
		return false, false
	}
	return m.connected.Load(), m.observed.Load()
}

// Subscribe registers fn for future status changes. Registration is queued on
// the loop, so a subscriber added during a notification first hears the next
// one.
func (m *Monitor) Subscribe(fn func(connected bool)) *Subscription {
	sub := &Subscription{monitor: m, fn: fn}
	m.register(sub)
	return sub
}

// SubscribeWhile registers fn and keeps it subscribed for as long as it
// returns true. A false return removes it once the current notification pass
// completes.
func (m *Monitor) SubscribeWhile(fn func(connected bool) bool) *Subscription {
	sub := &Subscription{monitor: m}
	sub.fn = func(connected bool) {
		if !fn(connected) {
			sub.Cancel()
		}
	}
	m.register(sub)
	return sub
}

func (m *Monitor) register(sub *Subscription) {
	m.loop.Post(func() {
		if sub.cancelled.Load() {
			return
		}
		m.subs = append(m.subs, sub)
	})
}

func (m *Monitor) forward(updates <-chan bool) {
	for status := range updates {
		status := status
		m.loop.Post(func() { m.deliver(status) })
	}
}

// deliver runs on the loop.
func (m *Monitor) deliver(connected bool) {
	if m.state.Load() == stateStopped {
		return
	}
	m.connected.Store(connected)
	m.observed.Store(true)
	m.log.WithFields(logrus.Fields{
		"connected":   connected,
		"subscribers": len(m.subs),
	}).Info("connectivity changed")

	for _, sub := range m.subs {
		if sub.cancelled.Load() {
			continue
		}
		sub.fn(connected)
	}
	m.prune()
}

// prune runs on the loop.
func (m *Monitor) prune() {
	kept := m.subs[:0]
	for _, sub := range m.subs {
		if !sub.cancelled.Load() {
			kept = append(kept, sub)
		}
	}
	for i := len(kept); i < len(m.subs); i++ {
		m.subs[i] = nil
	}
	m.subs = kept
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	monitor   *Monitor
	fn        func(bool)
	cancelled atomic.Bool
}

// Cancel stops further notifications. It is safe from any goroutine,
// including from inside the subscriber's own callback.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled.Swap(true) {
		return
	}
	s.monitor.loop.Post(s.monitor.prune)
}

// Active reports whether the subscription has not been cancelled.
func (s *Subscription) Active() bool {
	return s != nil && !s.cancelled.Load()
}
