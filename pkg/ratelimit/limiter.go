package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type Logger interface {
	Error(msg string, args ...any)
}

// RateLimiter decides whether the caller identified by key is over budget.
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(ctx context.Context, key string) (bool, error)
	Close() error
}

// RateLimitConfig holds configuration for rate limiting. Scope separates the
// buckets of limiters that share one Redis, e.g. "global" and "admin-login".
type RateLimitConfig struct {
	Scope    string
	Requests int
	Window   time.Duration
	Redis    *redis.Client // nil selects the in-memory limiter
	Logger   Logger
}

// NewRateLimiter picks the Redis strategy when a client is configured.
func NewRateLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis != nil {
		return NewRedisRateLimiter(config.Redis, config.Scope, config.Requests, config.Window, config.Logger)
	}
	return NewInMemoryRateLimiter(config.Requests, config.Window)
}
