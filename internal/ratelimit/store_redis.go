package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for limiter windows.
const bucketKeyPrefix = "rl:bucket:"

// RedisBucketStore keeps sliding windows in a sorted set per key, scored by
// request time. Production-recommended when the surface runs behind multiple
// replicas that must share limiter state.
type RedisBucketStore struct {
	client *redis.Client
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

// Allow trims the window, counts survivors, and admits atomically enough for
// rate limiting: a pipeline keeps the round trips down, and over-admission
// under contention is bounded by the pipeline race width.
func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	redisKey := bucketKeyPrefix + key
	now := time.Now()
	cutoff := now.Add(-window)

	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("trim limiter window: %w", err)
	}

	count := int(countCmd.Val())
	if count+1 > limit {
		return &Result{Allowed: false, Remaining: 0, Limit: limit, ResetAt: now.Add(window)}, nil
	}

	pipe = s.client.Pipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("record limiter hit: %w", err)
	}

	return &Result{
		Allowed:   true,
		Remaining: limit - count - 1,
		Limit:     limit,
		ResetAt:   now.Add(window),
	}, nil
}

// Reset clears the window for a key.
func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, bucketKeyPrefix+key).Err()
}
