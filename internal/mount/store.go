package mount

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store is a thread-safe in-memory mount registry with TTL eviction. A mount
// that has not been used for ttl is treated as a torn-down page.
type Store struct {
	mu     sync.Mutex
	mounts map[string]*Mount
	ttl    time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		mounts: make(map[string]*Mount),
		ttl:    ttl,
	}
}

func (s *Store) Put(m *Mount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounts[m.ID] = m
}

func (s *Store) Get(id string) *Mount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounts[id]
}

// Delete removes a mount, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.mounts[id]
	delete(s.mounts, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mounts)
}

// Cleanup removes expired mounts and returns how many were evicted.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	evicted := 0
	for id, m := range s.mounts {
		if now.Sub(m.UpdatedAt()) > s.ttl {
			delete(s.mounts, id)
			evicted++
		}
	}
	return evicted
}

// Run calls Cleanup every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				log.Info("mounts evicted", "count", n, "remaining", s.Len())
			}
		}
	}
}
