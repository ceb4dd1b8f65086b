package router

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grahmind/careers-waitlist/pkg/ratelimit"
)

const globalRateLimitScope = "global"

// RateLimitingEnabled reports whether a global request budget was configured.
func (routerService *RouterService) RateLimitingEnabled() bool {
	return routerService.rateLimitRequests > 0 && routerService.rateLimitWindow > 0
}

func (routerService *RouterService) GetDefaultRateLimitConfig() (int, time.Duration) {
	return routerService.rateLimitRequests, routerService.rateLimitWindow
}

// initRateLimiting builds the global limiter. An unreachable Redis is dropped
// so that every limiter of this router runs in memory.
func (routerService *RouterService) initRateLimiting() {
	if !routerService.RateLimitingEnabled() {
		routerService.logger.Info("Rate limiting disabled", "env", "RATE_LIMIT_REQUESTS")
		return
	}

	if client := routerService.redisClient; client != nil {
		if err := client.Ping(context.Background()).Err(); err != nil {
			routerService.logger.Warn("Redis unreachable for rate limiting, using in-memory limiter", "error", err)
			routerService.redisClient = nil
		}
	}

	routerService.rateLimiter = routerService.buildLimiter(globalRateLimitScope, routerService.rateLimitRequests, routerService.rateLimitWindow)

	backend := "memory"
	if routerService.redisClient != nil {
		backend = "redis"
	}
	routerService.logger.Info("Rate limiting initialized",
		"backend", backend,
		"requests", routerService.rateLimitRequests,
		"window", routerService.rateLimitWindow,
	)
}

func (routerService *RouterService) buildLimiter(scope string, requests int, window time.Duration) ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Scope:    scope,
		Requests: requests,
		Window:   window,
		Redis:    routerService.redisClient,
		Logger:   routerService.logger,
	})
}

// NewRateLimiter builds a per-controller or per-handler limiter sharing the
// router's backend. It returns nil while rate limiting is disabled.
func (routerService *RouterService) NewRateLimiter(scope string, requests int, window time.Duration) ratelimit.RateLimiter {
	if !routerService.RateLimitingEnabled() || requests <= 0 || window <= 0 {
		return nil
	}
	return routerService.buildLimiter(scope, requests, window)
}

// limiterFor resolves, in order, the handler override, the controller
// override and the global limiter. Unmatched routes use the global one.
func (routerService *RouterService) limiterFor(c *gin.Context) ratelimit.RateLimiter {
	handlerKey := routerService.keyForPathAndMethod(c.FullPath(), c.Request.Method)
	if limiter, ok := routerService.rateLimitOverrides[handlerKey]; ok {
		return limiter
	}

	if controller := routerService.handlerToControllerMap[handlerKey]; controller != nil {
		if limiter, ok := routerService.rateLimitOverrides[controller.mountPoint]; ok {
			return limiter
		}
	}
	return routerService.rateLimiter
}

func retryAfterSeconds(window time.Duration) int {
	return max(1, int(math.Ceil(window.Seconds())))
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := routerService.limiterFor(c)
		if limiter == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		limit, window := limiter.GetLimitDetails()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Window", window.String())

		limited, err := limiter.IsLimited(c.Request.Context(), clientIP)
		if err != nil {
			// Fail open.
			routerService.logger.Error("Rate limiter error", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}
		if !limited {
			c.Next()
			return
		}

		retryAfter := strconv.Itoa(retryAfterSeconds(window))
		routerService.logger.Warn("Rate limit exceeded", "client_ip", clientIP, "path", c.Request.URL.Path)
		c.Header("Retry-After", retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
			Limit:      limit,
			Window:     window.String(),
			RetryAfter: retryAfter,
		}).ToJSON())
	}
}
