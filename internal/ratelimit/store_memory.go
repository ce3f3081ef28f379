package ratelimit

import (
	"context"
	"sync"
	"time"
)

// BucketStore is the persistence port for limiter state.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
	Reset(ctx context.Context, key string) error
}

// MemoryBucketStore keeps sliding windows in process. Single-instance only;
// use the redis store when the surface runs behind more than one replica.
type MemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*slidingWindow
}

type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

func NewMemoryBucketStore() *MemoryBucketStore {
	return &MemoryBucketStore{buckets: make(map[string]*slidingWindow)}
}

// Allow admits the request when the window has room, recording it on admit.
func (s *MemoryBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sw := s.buckets[key]
	if sw == nil {
		sw = &slidingWindow{window: window}
		s.buckets[key] = sw
	}
	sw.cleanup(now)

	if len(sw.timestamps)+1 > limit {
		return &Result{Allowed: false, Remaining: 0, Limit: limit, ResetAt: now.Add(window)}, nil
	}
	sw.timestamps = append(sw.timestamps, now)
	return &Result{
		Allowed:   true,
		Remaining: limit - len(sw.timestamps),
		Limit:     limit,
		ResetAt:   sw.timestamps[0].Add(window),
	}, nil
}

// Reset clears the window for a key.
func (s *MemoryBucketStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// cleanup drops timestamps that slid out of the window. Callers hold the lock.
func (sw *slidingWindow) cleanup(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}
