package generalize

// monitor.go: statistics for the generalization search

import (
	"sync"
	"time"
)

// Stats holds counters collected during one or more solves.
type Stats struct {
	// Rule engine
	Trivial       int // TRI applications
	Decompose     int // DEC applications (one per AUT that produced children)
	Solve         int // SOL applications
	Branches      int // configurations created, including the initial one
	LinearConfigs int // configurations whose A became empty
	MaxQueue      int // peak length of the branch queue

	// Special conjunction
	Conjunctions       int // solution-mode runs
	ConjBranches       int // branches explored over all runs
	ConsistencyChecks  int // check-mode runs
	Inconsistent       int // check-mode runs that found no branch
	RejectedDecomposes int // DEC candidates dropped by the consistency check

	// Post-processing
	Merges    int // AUTs absorbed into another AUT
	Solutions int // distinct solutions emitted

	// Common-proximates memo
	CacheHits   int
	CacheMisses int

	SearchTime time.Duration
	PostTime   time.Duration
}

// Monitor collects Stats. A nil *Monitor is valid and records nothing.
type Monitor struct {
	mu    sync.Mutex
	stats Stats
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// GetStats returns a copy of the current statistics.
func (m *Monitor) GetStats() Stats {
	if m == nil {
		return Stats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Reset clears all counters.
func (m *Monitor) Reset() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = Stats{}
}

func (m *Monitor) record(fn func(s *Stats)) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.stats)
}

func (m *Monitor) recordQueue(size int) {
	m.record(func(s *Stats) {
		if size > s.MaxQueue {
			s.MaxQueue = size
		}
	})
}
