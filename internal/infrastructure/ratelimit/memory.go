package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterEntry is a per-key token bucket and the last time it was used
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore is a thread-safe in-process rate limit store with one token
// bucket per key. Idle buckets are evicted periodically.
type MemoryStore struct {
	data    map[string]*limiterEntry
	mutex   sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a store allowing perMinute requests per key with the given burst
func NewMemoryStore(perMinute, burst int) *MemoryStore {
	if burst <= 0 {
		burst = perMinute
	}

	store := &MemoryStore{
		data:    make(map[string]*limiterEntry),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		done:    make(chan struct{}),
	}

	// Evict idle buckets every minute
	go store.cleanupIdle(time.Minute)

	return store
}

// Allow reports whether key may make another request now
func (s *MemoryStore) Allow(ctx context.Context, key string) (bool, error) {
	s.mutex.Lock()
	entry, exists := s.data[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.data[key] = entry
	}
	entry.lastSeen = time.Now()
	s.mutex.Unlock()

	return entry.limiter.Allow(), nil
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// cleanupIdle removes buckets that have not been used within idleTTL
func (s *MemoryStore) cleanupIdle(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

func (s *MemoryStore) evictIdle(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for key, entry := range s.data {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.data, key)
		}
	}
}

// Size returns the number of tracked keys
func (s *MemoryStore) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.data)
}
