package state

import (
	"fmt"
	"sync"
	"time"
)

// Origin records where the displayed catalog came from.
type Origin string

const (
	OriginNone    Origin = ""
	OriginCache   Origin = "cache"
	OriginNetwork Origin = "network"
)

// Snapshot describes fetch activity for status displays.
type Snapshot struct {
	Origin              Origin
	Dramas              int // size of the catalog currently held
	InFlight            int
	LastUpdated         time.Time // last attempt completion, success or not
	LastSuccess         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsFailing returns true when several fetches in a row have failed.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Seeded records a catalog restored from the offline cache.
func (s *Store) Seeded(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Origin = OriginCache
	s.snapshot.Dramas = count
}

// Begin marks a fetch as started.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.InFlight++
}

// Finish records a fetch outcome. When err is non-nil the previous catalog
// is kept but the error is recorded for visibility.
func (s *Store) Finish(count int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.InFlight > 0 {
		s.snapshot.InFlight--
	}
	now := time.Now()
	s.snapshot.LastUpdated = now
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Origin = OriginNetwork
	s.snapshot.Dramas = count
	s.snapshot.LastSuccess = now
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
