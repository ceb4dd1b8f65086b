package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/pkg/ratelimit"
	"github.com/grahmind/careers-waitlist/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	DefaultTimeoutDuration = 30 * time.Second
	defaultPort            = "8080"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RouterService struct {
	engine         *gin.Engine
	server         *http.Server
	logger         *log.Logger
	settings       httpSettings
	requestTimeout time.Duration
	registry       *prometheus.Registry

	rateLimiter       ratelimit.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
	redisClient       *redis.Client

	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
}

// RouterConfig configures the HTTP surface. Rate limiting stays off unless
// RateLimitRequests is positive.
type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

// CreateRouterService builds the gin engine with the shared middleware chain.
// A cache that exposes a Redis client backs the rate limiters.
func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	if mode := utils.GetEnvTrimmed("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	rs := &RouterService{
		engine:                 gin.New(),
		logger:                 logger,
		settings:               loadHTTPSettings(),
		requestTimeout:         routerConfig.RequestTimeout,
		rateLimitRequests:      routerConfig.RateLimitRequests,
		rateLimitWindow:        routerConfig.RateLimitWindow,
		handlerToControllerMap: make(map[string]*RESTController),
		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
	}
	if rs.requestTimeout <= 0 {
		rs.requestTimeout = DefaultTimeoutDuration
	}
	if provider, ok := cache.(RedisClientProvider); ok {
		rs.redisClient = provider.GetClient()
	}

	rs.configureProxies()
	rs.initRateLimiting()

	rs.engine.Use(gin.Recovery())
	if utils.IsTracingEnabled() {
		rs.engine.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}
	rs.mountMetrics()

	chain := []gin.HandlerFunc{
		rs.securityHeadersMiddleware(),
		rs.maxBodySizeMiddleware(),
		rs.corsMiddleware(),
	}
	if rs.RateLimitingEnabled() {
		chain = append(chain, rs.rateLimitMiddleware())
	}
	chain = append(chain,
		rs.timeoutMiddleware(),
		rs.correlationIDMiddleware(),
		rs.requestLoggingMiddleware(),
	)
	rs.engine.Use(chain...)

	rs.engine.HandleMethodNotAllowed = true
	rs.engine.RedirectTrailingSlash = true
	rs.engine.NoRoute(rs.fallbackHandler(http.StatusNotFound, "Route not found"))
	rs.engine.NoMethod(rs.fallbackHandler(http.StatusMethodNotAllowed, "Method not allowed"))

	// Handlers are not run on a separate goroutine, so the server timeouts are
	// what bounds a stuck request.
	rs.server = &http.Server{
		Handler:           rs.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       rs.requestTimeout,
		WriteTimeout:      rs.requestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized")
	return rs
}

func (routerService *RouterService) configureProxies() {
	proxies := routerService.settings.trustedProxies
	if err := routerService.engine.SetTrustedProxies(proxies); err != nil {
		routerService.logger.Error("Invalid TRUSTED_PROXIES, trusting none", "error", err)
		_ = routerService.engine.SetTrustedProxies(nil)
		return
	}
	if proxies == nil {
		routerService.logger.Info("Trusted proxies disabled", "env", "TRUSTED_PROXIES")
	}
}

// MetricsRegisterer returns the registry served on /metrics, or nil when
// metrics are disabled.
func (routerService *RouterService) MetricsRegisterer() prometheus.Registerer {
	if routerService.registry == nil {
		return nil
	}
	return routerService.registry
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

func (routerService *RouterService) MountController(controller *RESTController) {
	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
		"handlers", controller.handlerCount,
	)
}

// RunHTTPServer blocks serving on APP_PORT until Shutdown is called.
func (routerService *RouterService) RunHTTPServer() error {
	routerService.server.Addr = ":" + utils.GetEnvTrimmedOrDefault("APP_PORT", defaultPort)
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	if err := routerService.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server")
	return routerService.server.Shutdown(ctx)
}

func (routerService *RouterService) Cleanup() {
	if routerService.rateLimiter == nil {
		return
	}
	if err := routerService.rateLimiter.Close(); err != nil {
		routerService.logger.Error("Failed to close rate limiter", "error", err)
	}
}
