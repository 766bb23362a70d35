package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/neo-rgalvez/taskflow/internal/core/port"
)

// RateLimitStore keeps fixed-window counters in process memory. It is the
// default backend for single-instance deployments; multi-instance setups
// should use the Redis store so limits apply across replicas.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	count int64
	reset time.Time
}

// NewRateLimitStore constructs an empty in-memory store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *RateLimitStore) WithClock(now func() time.Time) *RateLimitStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Incr bumps the counter for key, opening a fresh window when the previous
// one has elapsed. The whole read-modify-write runs under one lock, so
// concurrent callers always observe distinct counts.
func (s *RateLimitStore) Incr(_ context.Context, key string, windowDur time.Duration) (int64, time.Time, error) {
	if windowDur <= 0 {
		return 0, time.Time{}, errors.New("window must be positive")
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !w.reset.After(now) {
		w = &window{reset: now.Add(windowDur)}
		s.windows[key] = w
	}

	w.count++
	return w.count, w.reset, nil
}

// Sweep drops windows that have already reset, bounding memory growth.
func (s *RateLimitStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if !w.reset.After(now) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

var _ port.RateLimitStore = (*RateLimitStore)(nil)
