package agenda

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-process runs.
type MemoryStore struct {
	mu   sync.Mutex
	info *FullInfo
	subs map[int]chan struct{}
	next int
}

// NewMemoryStore creates an empty in-memory signal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[int]chan struct{})}
}

// Get returns the current fact, or nil when none is set.
func (s *MemoryStore) Get(ctx context.Context) (*FullInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return nil, nil
	}
	cp := *s.info
	return &cp, nil
}

// Set records the fact and notifies observers.
func (s *MemoryStore) Set(ctx context.Context, info FullInfo) error {
	s.mu.Lock()
	s.info = &info
	s.broadcastLocked()
	s.mu.Unlock()
	return nil
}

// Clear removes the fact and notifies observers.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.info = nil
	s.broadcastLocked()
	s.mu.Unlock()
	return nil
}

// Subscribe delivers a tick per change until stop is called.
func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	s.mu.Lock()
	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	s.mu.Unlock()

	stop := func() {
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, stop, nil
}

func (s *MemoryStore) broadcastLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
