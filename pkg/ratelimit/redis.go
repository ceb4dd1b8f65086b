package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "ratelimit:"

// slidingWindow trims entries older than the window, then admits the request
// only while the set holds fewer than limit members.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local expire = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) >= limit then
	return 1
end

redis.call('ZADD', key, now, member)
redis.call('EXPIRE', key, expire)
return 0
`)

// RedisRateLimiter implements a sliding window shared by every instance
// pointing at the same Redis.
type RedisRateLimiter struct {
	client   *redis.Client
	scope    string
	requests int
	window   time.Duration
	logger   Logger
	now      func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, scope string, requests int, window time.Duration, logger Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:   client,
		scope:    scope,
		requests: requests,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *RedisRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisRateLimiter) key(key string) string {
	if r.scope == "" {
		return keyPrefix + key
	}
	return keyPrefix + r.scope + ":" + key
}

func (r *RedisRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	fullKey := r.key(key)
	args := []any{
		r.now().UnixMilli(),
		r.window.Milliseconds(),
		r.requests,
		int64((2 * r.window).Seconds()),
		uuid.NewString(),
	}

	result, err := slidingWindow.Run(ctx, r.client, []string{fullKey}, args...).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script execution failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("rate limiter Redis error: %w", err)
	}
	return result == 1, nil
}

// Close is a no-op; the Redis client belongs to the application cache.
func (r *RedisRateLimiter) Close() error {
	return nil
}
