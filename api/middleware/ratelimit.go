package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
)

// counterStore is the subset of the redis client the limiter uses.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimiter is a fixed-window counter per client IP kept in redis.
type RateLimiter struct {
	store counterStore
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	if client == nil {
		return &RateLimiter{}
	}
	return &RateLimiter{store: client}
}

// Limit allows limit requests per window. Redis errors let the request
// through.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl == nil || rl.store == nil || limit <= 0 {
				return next(c)
			}
			ctx := c.Request().Context()
			key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, c.RealIP())

			count, err := rl.store.Incr(ctx, key).Result()
			if err != nil {
				logger.Warnf("rate limiter unavailable: %v", err)
				return next(c)
			}
			if count == 1 {
				rl.startWindow(ctx, key, window)
			}

			if count > int64(limit) {
				ttl, err := rl.store.TTL(ctx, key).Result()
				if err == nil && ttl < 0 {
					// counter without an expiry; restart its window
					rl.startWindow(ctx, key, window)
					ttl = window
				}
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%.0f", ttl.Seconds()))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "too many requests",
				})
			}
			return next(c)
		}
	}
}

// startWindow sets the counter's expiry. A counter that cannot be given an
// expiry is dropped so the client is not limited forever.
func (rl *RateLimiter) startWindow(ctx context.Context, key string, window time.Duration) {
	ok, err := rl.store.Expire(ctx, key, window).Result()
	if err == nil && ok {
		return
	}
	logger.Warnf("rate limiter could not expire %s: %v", key, err)
	if err := rl.store.Del(ctx, key).Err(); err != nil {
		logger.Warnf("rate limiter could not drop %s: %v", key, err)
	}
}
