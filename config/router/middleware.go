package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grahmind/careers-waitlist/internal/log"
)

const (
	correlationHeader      = "X-Correlation-ID"
	maxCorrelationIDLength = 128

	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Correlation-ID"
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
)

func abortWithResult(c *gin.Context, result *ServiceResult) {
	c.AbortWithStatusJSON(result.StatusCode, result.ToJSON())
}

func (routerService *RouterService) correlationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(correlationHeader))
		if id == "" || len(id) > maxCorrelationIDLength {
			id = log.GenerateCorrelationID()
		}
		ctx := log.ContextWithCorrelationID(c.Request.Context(), id)
		ctx = log.ContextWithLogger(ctx, routerService.logger.WithCorrelationID(ctx))
		c.Request = c.Request.WithContext(ctx)
		c.Header(correlationHeader, id)
		c.Next()
	}
}

func (routerService *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger := log.GetLoggerInstanceFromContext(c.Request.Context(), routerService.logger)
		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	hsts := routerService.settings.hsts

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		// TLS may be terminated by a proxy in front of us.
		if hsts != "" && (c.Request.TLS != nil || strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

func (routerService *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	limit := routerService.settings.maxBodyBytes

	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			abortWithResult(c, ErrorResult(http.StatusRequestEntityTooLarge, "Request payload too large", nil))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// corsMiddleware only answers origins listed in CORS_ALLOWED_ORIGIN. Other
// cross-origin requests proceed without CORS headers and are blocked by the browser.
func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	settings := routerService.settings
	if !settings.corsEnabled() {
		routerService.logger.Warn("CORS_ALLOWED_ORIGIN not set, cross-origin requests will be denied")
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !settings.originAllowed(origin) {
			if origin != "" {
				routerService.logger.Warn("CORS origin not allowed", "origin", origin)
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// timeoutMiddleware bounds the request context. Handlers run on the request
// goroutine; a handler that overruns without writing gets a 408.
func (routerService *RouterService) timeoutMiddleware() gin.HandlerFunc {
	timeout := routerService.requestTimeout

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			log.GetLoggerInstanceFromContext(ctx, routerService.logger).Warn("Request timeout", "timeout", timeout)
			abortWithResult(c, ErrorResult(http.StatusRequestTimeout, "Request timeout", nil))
		}
	}
}

func (routerService *RouterService) fallbackHandler(status int, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.GetLoggerInstanceFromContext(c.Request.Context(), routerService.logger).
			Warn(message, "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(status, ErrorResult(status, message, nil).ToJSON())
	}
}
