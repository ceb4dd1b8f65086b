package monitoring

import (
	"context"
	"time"

	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/pkg/circuitbreaker"
	"github.com/grahmind/careers-waitlist/pkg/constants"
	"gorm.io/gorm"
)

type Cache interface {
	Ping(ctx context.Context) error
}

// Configurable is satisfied by the upstream clients that can run without credentials.
type Configurable interface {
	IsConfigured() bool
}

type SheetsClient interface {
	Configurable
	Breaker() circuitbreaker.CircuitBreaker
}

// Dependencies lists what the health check probes. Nil members report as 0.
type Dependencies struct {
	DB        *gorm.DB
	Cache     Cache
	ListStore Configurable
	Sheets    SheetsClient
}

type HealthStatus struct {
	Database      int    `json:"database"`   // 1 = healthy, 0 = unhealthy/not configured
	Cache         int    `json:"cache"`      // 1 = healthy, 0 = unhealthy/not configured
	ListStore     int    `json:"list_store"` // 1 = credentials present
	Sheets        int    `json:"sheets"`     // 1 = credentials present and circuit not open
	SheetsCircuit string `json:"sheets_circuit,omitempty"`
	Uptime        int    `json:"uptime"` // seconds
}

type MonitoringController struct {
	deps      Dependencies
	logger    *log.Logger
	startTime time.Time
}

func NewMonitoringController(deps Dependencies, logger *log.Logger) *router.RESTController {
	ctrl := &MonitoringController{
		deps:      deps,
		logger:    logger,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			monitoringRateLimiter := routerService.NewRateLimiter("monitoring", constants.MonitoringRequestsPerMinute, constants.DefaultRateLimitWindow)

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.monitor(c)
			})

			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")
	healthStatus := ctrl.performHealthChecks(c.Request.Context(), logger)

	return router.OKResult(healthStatus, "careers-waitlist health check completed")
}

func (ctrl *MonitoringController) monitor(
	c *router.RequestContext,
) *router.ServiceResult {
	return router.OKResult("Monitoring endpoint is operational.", "Monitoring successful")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkDatabaseConnectivity(ctx, ctrl.deps.DB, &status, logger)
	checkCacheConnectivity(ctx, ctrl.deps.Cache, &status, logger)
	checkListStore(ctrl.deps.ListStore, &status, logger)
	checkSheets(ctrl.deps.Sheets, &status, logger)

	return status
}

func checkCacheConnectivity(ctx context.Context, cache Cache, status *HealthStatus, logger *log.Logger) {
	if cache == nil {
		logger.Info("Cache not configured, cache health check skipped")
		return
	}

	if err := cache.Ping(ctx); err != nil {
		logger.Error("Cache health check failed", "error", err)
		return
	}
	status.Cache = 1
}

func checkDatabaseConnectivity(ctx context.Context, db *gorm.DB, status *HealthStatus, logger *log.Logger) {
	if db == nil {
		logger.Info("Database not configured, database health check skipped")
		return
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Error("Database health check failed", "error", err)
		return
	}
	status.Database = 1
}

func checkListStore(store Configurable, status *HealthStatus, logger *log.Logger) {
	if store == nil || !store.IsConfigured() {
		logger.Warn("Waitlist storage credentials missing")
		return
	}
	status.ListStore = 1
}

func checkSheets(client SheetsClient, status *HealthStatus, logger *log.Logger) {
	if client == nil || !client.IsConfigured() {
		logger.Info("Sheets forwarding not configured")
		return
	}

	state := client.Breaker().State()
	status.SheetsCircuit = state.String()
	if state == circuitbreaker.Open {
		logger.Warn("Sheets circuit is open")
		return
	}
	status.Sheets = 1
}
