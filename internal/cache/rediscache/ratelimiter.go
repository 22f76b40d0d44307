// Package rediscache holds the Redis-backed helpers of the API.
package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces limiter counters in a shared Redis.
const keyPrefix = "caronas:rl:"

// RateLimiter is a fixed-window counter: each key may be hit limit times per
// window. The window starts at the first hit.
type RateLimiter struct {
	c      *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter returns a limiter allowing limit hits per window on c.
func NewRateLimiter(c *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{c: c, limit: limit, window: window}
}

// Allow records one hit on key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = keyPrefix + key

	// SET NX starts the window; INCR keeps the TTL of an existing key.
	pipe := rl.c.TxPipeline()
	pipe.SetNX(ctx, key, 0, rl.window)
	incr := pipe.Incr(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "redis ratelimit")
	}
	return incr.Val() <= rl.limit, nil
}

// Ping checks the connection; the server calls it at startup.
func (rl *RateLimiter) Ping(ctx context.Context) error {
	return errors.Wrap(rl.c.Ping(ctx).Err(), "redis ping")
}
