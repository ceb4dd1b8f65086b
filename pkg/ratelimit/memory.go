package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const cleanupEvery = 1024

// InMemoryRateLimiter keeps one token bucket per key. Suitable for a single instance.
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration
	now      func() time.Time

	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	ops      uint64
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		now:      time.Now,
		limiters: make(map[string]*keyedLimiter),
	}
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.limiters[key]
	if !ok {
		perSecond := float64(r.requests) / r.window.Seconds()
		k = &keyedLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), r.requests)}
		r.limiters[key] = k
	}
	k.lastSeen = now

	r.ops++
	if r.ops%cleanupEvery == 0 {
		r.evictIdle(now.Add(-2 * r.window))
	}

	return !k.limiter.AllowN(now, 1), nil
}

// evictIdle drops buckets not seen since cutoff. Callers hold r.mu.
func (r *InMemoryRateLimiter) evictIdle(cutoff time.Time) {
	for key, k := range r.limiters {
		if k.lastSeen.Before(cutoff) {
			delete(r.limiters, key)
		}
	}
}

func (r *InMemoryRateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *InMemoryRateLimiter) Close() error {
	return nil
}
