package domain

import (
	"fmt"

	"github.com/grahmind/careers-waitlist/config"
	"github.com/grahmind/careers-waitlist/domain/admin"
	"github.com/grahmind/careers-waitlist/domain/dashboard"
	"github.com/grahmind/careers-waitlist/domain/monitoring"
	"github.com/grahmind/careers-waitlist/domain/sheets"
	"github.com/grahmind/careers-waitlist/domain/waitlist"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/scheduler"
	"github.com/grahmind/careers-waitlist/pkg/circuitbreaker"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
	pkgsheets "github.com/grahmind/careers-waitlist/pkg/sheets"
	"github.com/prometheus/client_golang/prometheus"
)

// Core holds the long-lived pieces the server needs after routes are mounted.
type Core struct {
	Updater   *liststore.Updater
	View      *dashboard.View
	Scheduler *scheduler.Scheduler
}

// NewListUpdater builds the JSONBin-backed store shared by every writer in
// this process. reg may be nil.
func NewListUpdater(cfg *config.AppConfig, logger *log.Logger, reg prometheus.Registerer) (*liststore.Updater, *liststore.JSONBinClient) {
	client := liststore.NewJSONBinClient(cfg.ListStore, logger)
	return liststore.NewUpdater(liststore.NewInstrumented(client, reg)), client
}

// NewDashboardView builds the admin view over updater using the configured day boundary.
func NewDashboardView(cfg *config.AppConfig, updater *liststore.Updater, logger *log.Logger) *dashboard.View {
	return dashboard.NewView(updater, logger, dashboard.WithLocation(cfg.Location))
}

func newSheetsClient(cfg *config.AppConfig, logger *log.Logger) *pkgsheets.Client {
	breakerConfig := circuitbreaker.DefaultConfig("google_sheets")
	breakerConfig.IsFailure = pkgsheets.IsUpstreamFailure
	breakerConfig.OnStateChange = func(name string, from, to circuitbreaker.CircuitState) {
		logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
	}
	return pkgsheets.NewClient(cfg.Sheets, circuitbreaker.NewCircuitBreaker(breakerConfig))
}

func SetupCoreDomain(appConfig *config.ApplicationConfig) (*Core, error) {
	cfg := appConfig.Config
	logger := appConfig.Logger
	rs := appConfig.RouterService
	reg := rs.MetricsRegisterer()

	updater, listClient := NewListUpdater(cfg, logger, reg)
	sheetsClient := newSheetsClient(cfg, logger)

	sessions, err := admin.NewSessionStore(cfg.SessionStore, appConfig.Cache, appConfig.DB)
	if err != nil {
		return nil, fmt.Errorf("admin session store: %w", err)
	}
	gate := admin.NewGate(
		admin.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password},
		sessions,
		logger,
		admin.WithLoginDelay(cfg.Admin.LoginDelay),
	)

	view := NewDashboardView(cfg, updater, logger)
	stats := scheduler.New(view, dashboard.NewStatsGauges(reg), cfg.StatsSchedule, cfg.Location, logger,
		scheduler.WithRunTimeout(cfg.RequestTimeout))

	var cache monitoring.Cache
	if appConfig.Cache != nil {
		cache = appConfig.Cache
	}

	rs.MountController(monitoring.NewMonitoringControllerFactory(monitoring.Dependencies{
		DB:        appConfig.DB,
		Cache:     cache,
		ListStore: listClient,
		Sheets:    sheetsClient,
	}, logger).CreateController())
	rs.MountController(waitlist.NewWaitlistServiceFactory(updater, logger).CreateController())
	rs.MountController(admin.NewAdminController(gate, admin.ControllerConfig{CookieSecure: cfg.Admin.CookieSecure}))
	rs.MountController(dashboard.NewDashboardController(view, gate))
	rs.MountController(sheets.NewSubmitEmailControllerFactory(sheetsClient, logger).CreateController())

	return &Core{Updater: updater, View: view, Scheduler: stats}, nil
}
