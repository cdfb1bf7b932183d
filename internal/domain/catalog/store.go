package catalog

import (
	"sync/atomic"
	"time"
)

// Store holds the current published snapshot. The refresh loop is the sole
// writer; request handlers read concurrently without blocking. Publish is a
// single pointer swap, so readers always observe a complete snapshot and a
// reader that starts after Publish returns sees that snapshot or a later
// one.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates an empty store. Current returns nil until the first
// Publish, so the refresh loop must bootstrap before the server accepts
// traffic.
func NewStore() *Store {
	return &Store{}
}

// Current returns the most recently published snapshot, or nil if nothing
// has been published yet.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Publish replaces the current snapshot. Only the refresh loop calls this.
func (s *Store) Publish(snap *Snapshot) {
	s.current.Store(snap)
}

// Stats reports the size and capture time of the current snapshot for
// health reporting.
func (s *Store) Stats() (count int, capturedAt time.Time) {
	snap := s.Current()
	if snap == nil {
		return 0, time.Time{}
	}
	return snap.Len(), snap.CapturedAt()
}
