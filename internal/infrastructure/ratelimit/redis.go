package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zuno/backend/internal/domain"
)

const defaultKeyPrefix = "zuno:ratelimit:"

// RedisStore is a fixed-window rate limit store shared across server instances
type RedisStore struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisStore connects to redisURL and allows limit requests per key per window
func NewRedisStore(ctx context.Context, redisURL string, limit int, window time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping failed: %v", domain.ErrStoreUnavailable, err)
	}

	return NewRedisStoreWithClient(client, limit, window), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, limit int, window time.Duration) *RedisStore {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow increments the counter for key in the current window
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := s.windowKey(key, s.now())

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.Expire(ctx, windowKey, s.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return incr.Val() <= s.limit, nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// windowKey buckets key by the start of the window containing t
func (s *RedisStore) windowKey(key string, t time.Time) string {
	bucket := t.UnixNano() / int64(s.window)
	return s.prefix + key + ":" + strconv.FormatInt(bucket, 10)
}
