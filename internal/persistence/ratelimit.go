package persistence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RateLimiter bounds ticket creation per user using a Redis counter
// with an hourly window. A nil limiter, missing Redis client, or a
// non-positive limit allows everything.
type RateLimiter struct {
	redis  *Redis
	limit  int
	logger *zap.Logger
}

// NewRateLimiter constructs a limiter over the shared Redis client.
func NewRateLimiter(redis *Redis, limit int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{redis: redis, limit: limit, logger: logger}
}

// Allow reports whether the given user may create another ticket this
// hour. Redis errors fail open: intake must not depend on the limiter.
func (rl *RateLimiter) Allow(ctx context.Context, userID string) bool {
	if rl == nil || rl.redis == nil || rl.redis.Client == nil || rl.limit <= 0 {
		return true
	}

	key := fmt.Sprintf("ratelimit:tickets:%s", userID)
	count, err := rl.redis.Client.Incr(ctx, key).Result()
	if err != nil {
		rl.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		rl.redis.Client.Expire(ctx, key, time.Hour)
	}
	return count <= int64(rl.limit)
}
