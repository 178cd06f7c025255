package usecase

import (
	"sort"
	"sync"
)

type Lookup string

const (
	LookupProfile       Lookup = "profile"
	LookupActivity      Lookup = "activity"
	LookupOpportunities Lookup = "opportunities"
	WriteProfile        Lookup = "profile_write"
	WriteActivity       Lookup = "activity_write"
	WriteOpportunity    Lookup = "opportunity_write"
)

type Outcome string

const (
	OutcomeFound  Outcome = "found"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
	OutcomeOK     Outcome = "ok"
)

// Stats counts how each store interaction ended. Failures degrade to empty
// results for callers, so these counters are the only place the difference
// between "no data" and "store down" is visible.
type Stats struct {
	mu     sync.Mutex
	counts map[Lookup]map[Outcome]int64
}

func NewStats() *Stats {
	return &Stats{counts: map[Lookup]map[Outcome]int64{}}
}

func (s *Stats) Record(l Lookup, o Outcome) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.counts[l]
	if !ok {
		m = map[Outcome]int64{}
		s.counts[l] = m
	}
	m[o]++
}

func (s *Stats) Count(l Lookup, o Outcome) int64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[l][o]
}

// Snapshot copies the counters, keyed by lookup then outcome.
func (s *Stats) Snapshot() map[string]map[string]int64 {
	out := map[string]map[string]int64{}
	if s == nil {
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for l, m := range s.counts {
		inner := make(map[string]int64, len(m))
		for o, n := range m {
			inner[string(o)] = n
		}
		out[string(l)] = inner
	}
	return out
}

// Degraded lists the lookups that have failed at least once, sorted.
func (s *Stats) Degraded() []string {
	out := make([]string, 0)
	if s == nil {
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for l, m := range s.counts {
		if m[OutcomeFailed] > 0 {
			out = append(out, string(l))
		}
	}
	sort.Strings(out)
	return out
}
