package domain

import (
	"sort"
	"sync"
	"time"
)

// Stats counts requests and errors and keeps the latency history of
// successful purchases for the p95 report.
type Stats struct {
	mu        sync.Mutex
	requests  int64
	errors    int64
	latencies []time.Duration
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) RecordRequest() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

func (s *Stats) RecordError() {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
}

func (s *Stats) RecordLatency(d time.Duration) {
	s.mu.Lock()
	s.latencies = append(s.latencies, d)
	s.mu.Unlock()
}

// Totals returns the counters and the 95th-percentile latency over recorded
// samples. hasP95 is false when no sample exists yet.
func (s *Stats) Totals() (requests, errors int64, p95 time.Duration, hasP95 bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.latencies) == 0 {
		return s.requests, s.errors, 0, false
	}
	sorted := make([]time.Duration, len(s.latencies))
	copy(sorted, s.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(0.95 * float64(len(sorted)-1))
	return s.requests, s.errors, sorted[idx], true
}
