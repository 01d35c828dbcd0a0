package connectivity

import (
	"context"
	"sync"
)

// Manual is a Source driven by explicit Set calls. The headless fetch command
// uses it to pin connectivity, and tests use it to script changes.
type Manual struct {
	mu       sync.Mutex
	initial  bool
	watchers map[chan bool]struct{}
}

var _ Source = (*Manual)(nil)

// NewManual returns a source whose first observation is initial.
func NewManual(initial bool) *Manual {
	return &Manual{initial: initial, watchers: make(map[chan bool]struct{})}
}

// Watch implements Source.
func (m *Manual) Watch(ctx context.Context) (<-chan bool, error) {
	ch := make(chan bool, 1)

	m.mu.Lock()
	ch <- m.initial
	m.watchers[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, ch)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

// Set publishes a status to every active watcher. It blocks until each
// watcher has accepted the value.
func (m *Manual) Set(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initial = connected
	for ch := range m.watchers {
		ch <- connected
	}
}
