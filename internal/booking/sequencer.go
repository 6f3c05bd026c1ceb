package booking

import "sync"

// Sequencer tags fetches with monotonically increasing sequence numbers
// per logical query. A response is applied only while its number is still
// the latest issued for that query; superseded responses are discarded
// silently. This is the sole cancellation mechanism, there is no hard
// network cancellation.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSequencer creates an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Begin issues the next sequence number for a logical query.
func (s *Sequencer) Begin(query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[query]++
	return s.latest[query]
}

// IsCurrent reports whether seq is still the latest issued for the query.
func (s *Sequencer) IsCurrent(query string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[query] == seq
}
