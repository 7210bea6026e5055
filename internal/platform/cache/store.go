package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/day-planner/internal/platform/resilience"
)

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Store is an in-process response cache keyed by exact strings (request URLs).
// With a zero TTL entries live for the lifetime of the process.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
	flight  resilience.SingleFlight[V]
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	if ttl < 0 {
		ttl = 0
	}
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && s.expired(current) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores value under key. Concurrent writers for the same key resolve as
// last write wins.
func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{
		value:      value,
		insertedAt: s.now(),
	}
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Outcome says how GetOrLoad produced its value.
type Outcome int

const (
	Miss Outcome = iota
	Hit
	Shared
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Shared:
		return "shared"
	default:
		return "miss"
	}
}

// GetOrLoad returns the cached value for key or runs loader once for all
// concurrent callers of the same key. Loader errors are not cached.
//
// The shared load runs detached from any single caller's cancellation and is
// bounded by the loader's own timeout. A cancelled caller stops waiting and
// gets its ctx error; the others still receive the loaded value.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, Outcome, error) {
	var zero V
	if loader == nil {
		return zero, Miss, fmt.Errorf("loader is required")
	}
	if key == "" {
		v, err := loader(ctx)
		return v, Miss, err
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, Hit, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	results := s.flight.DoChan(key, func() (V, error) {
		if cached, ok := s.Get(loadCtx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return zero, loadErr
		}
		s.Set(loadCtx, key, loaded)
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return zero, Miss, ctx.Err()
	case res := <-results:
		outcome := Miss
		if res.Shared {
			outcome = Shared
		}
		if res.Err != nil {
			return zero, outcome, res.Err
		}
		return res.Val, outcome, nil
	}
}

func (s *Store[V]) expired(e entry[V]) bool {
	if s.ttl <= 0 {
		return false
	}
	return !e.insertedAt.Add(s.ttl).After(s.now())
}
