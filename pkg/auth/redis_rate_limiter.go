package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window limiter shared across API instances,
// backed by an INCR counter with a window-sized TTL. It fails open: a cache
// outage must not take reads down with it.
type RedisRateLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a distributed limiter of limit requests per
// window for each key.
func NewRedisRateLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "ratelimit:",
	}
}

// Allow counts the request against the key's current window.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, nil
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}
	return count <= l.limit, nil
}
