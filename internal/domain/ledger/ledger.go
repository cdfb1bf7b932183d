// Package ledger records inbound requests for usage analytics.
package ledger

import (
	"sync"
	"time"
)

// DefaultRetention is how long request entries are kept.
const DefaultRetention = 24 * time.Hour

// Entry is one recorded request.
type Entry struct {
	Timestamp time.Time
	ClientID  string
}

// Ledger is a bounded, time-windowed request record. Requests append from
// any goroutine; the refresh loop prunes expired entries lazily once per
// cycle. Entries are appended in time order, so eviction only ever removes
// from the front.
type Ledger struct {
	mu        sync.Mutex
	entries   []Entry
	retention time.Duration
}

// New creates a ledger with the given retention window. A zero retention
// falls back to DefaultRetention.
func New(retention time.Duration) *Ledger {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Ledger{retention: retention}
}

// Append records one request. The client identifier may be empty.
func (l *Ledger) Append(at time.Time, clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Timestamp: at, ClientID: clientID})
}

// Prune drops entries that fell outside the retention window as of now,
// returning how many were removed.
func (l *Ledger) Prune(now time.Time) int {
	cutoff := now.Add(-l.retention)

	l.mu.Lock()
	defer l.mu.Unlock()

	i := 0
	for i < len(l.entries) && l.entries[i].Timestamp.Before(cutoff) {
		i++
	}
	if i == 0 {
		return 0
	}

	remaining := make([]Entry, len(l.entries)-i)
	copy(remaining, l.entries[i:])
	l.entries = remaining

	return i
}

// Summarize groups entries by client identifier, returning per-client
// counts and the total.
func (l *Ledger) Summarize() (map[string]int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[string]int)
	for _, e := range l.entries {
		counts[e.ClientID]++
	}
	return counts, len(l.entries)
}

// Len returns the current number of entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
