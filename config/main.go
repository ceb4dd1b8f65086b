package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	"github.com/grahmind/careers-waitlist/pkg/constants"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
	"github.com/grahmind/careers-waitlist/pkg/sheets"
	"github.com/grahmind/careers-waitlist/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration

	ListStore liststore.JSONBinConfig
	Sheets    sheets.Config
	Admin     AdminConfig

	SessionStore  string
	Location      *time.Location
	StatsSchedule string
}

type AdminConfig struct {
	Username     string
	Password     string
	LoginDelay   time.Duration
	CookieSecure bool
}

// IsConfigured reports whether both admin secrets are present.
func (ac AdminConfig) IsConfigured() bool {
	return ac.Username != "" && ac.Password != ""
}

// NewAppConfig reads the application settings from the environment. Missing
// third-party credentials are not an error here; the components degrade.
func NewAppConfig(logger *log.Logger) *AppConfig {
	config := &AppConfig{
		RateLimitWindow: constants.DefaultRateLimitWindow,
		RequestTimeout:  constants.DefaultRequestTimeout,

		ListStore: liststore.JSONBinConfig{
			BinID:   utils.GetEnvTrimmed("JSONBIN_BIN_ID"),
			APIKey:  utils.GetEnvTrimmed("JSONBIN_API_KEY"),
			BaseURL: utils.GetEnvTrimmedOrDefault("JSONBIN_BASE_URL", liststore.DefaultJSONBinBaseURL),
		},
		Sheets: sheets.Config{
			SheetID: utils.GetEnvTrimmed("GOOGLE_SHEET_ID"),
			APIKey:  utils.GetEnvTrimmed("GOOGLE_API_KEY"),
			BaseURL: utils.GetEnvTrimmedOrDefault("GOOGLE_SHEETS_BASE_URL", sheets.DefaultBaseURL),
			Range:   utils.GetEnvTrimmedOrDefault("GOOGLE_SHEET_RANGE", sheets.DefaultRange),
		},
		Admin: AdminConfig{
			Username:   os.Getenv("ADMIN_USERNAME"),
			Password:   os.Getenv("ADMIN_PASSWORD"),
			LoginDelay: constants.DefaultAdminLoginDelay,
		},

		SessionStore:  strings.ToLower(utils.GetEnvTrimmedOrDefault("SESSION_STORE", constants.SessionStoreMemory)),
		Location:      time.UTC,
		StatsSchedule: constants.DefaultStatsSchedule,
	}

	// Override from environment variables
	if reqStr := os.Getenv("RATE_LIMIT_REQUESTS"); reqStr != "" {
		if parsed, err := strconv.Atoi(reqStr); err == nil && parsed > 0 {
			config.RateLimitRequests = parsed
		}
	}

	if winStr := os.Getenv("RATE_LIMIT_WINDOW"); winStr != "" {
		if parsed, err := time.ParseDuration(winStr); err == nil && parsed > 0 {
			config.RateLimitWindow = parsed
		}
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil && parsed > 0 {
			config.RequestTimeout = parsed
		}
	}

	if delayStr := utils.GetEnvTrimmed("ADMIN_LOGIN_DELAY"); delayStr != "" {
		if parsed, err := time.ParseDuration(delayStr); err == nil && parsed >= 0 {
			config.Admin.LoginDelay = parsed
		} else {
			logger.Warn("Invalid ADMIN_LOGIN_DELAY; using default", "value", delayStr, "default", constants.DefaultAdminLoginDelay)
		}
	}

	if secureStr := utils.GetEnvTrimmed("ADMIN_COOKIE_SECURE"); secureStr != "" {
		if parsed, err := strconv.ParseBool(secureStr); err == nil {
			config.Admin.CookieSecure = parsed
		}
	} else {
		config.Admin.CookieSecure = IsProductionEnv(GetAppEnv())
	}

	tz := utils.GetEnvTrimmedOrDefault("WAITLIST_TIMEZONE", constants.DefaultTimezone)
	if loc, err := time.LoadLocation(tz); err == nil {
		config.Location = loc
	} else {
		logger.Warn("Invalid WAITLIST_TIMEZONE; using UTC", "value", tz, "error", err)
	}

	if schedule, ok := os.LookupEnv("STATS_SCHEDULE"); ok {
		config.StatsSchedule = strings.TrimSpace(schedule)
	}

	return config
}

// Validate rejects settings that cannot work together.
func (ac *AppConfig) Validate() error {
	switch ac.SessionStore {
	case constants.SessionStoreMemory, constants.SessionStoreRedis, constants.SessionStoreDatabase:
		return nil
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q (allowed: %s, %s, %s)", ac.SessionStore,
			constants.SessionStoreMemory, constants.SessionStoreRedis, constants.SessionStoreDatabase)
	}
}

// LogWarnings reports degraded integrations once at startup.
func (ac *AppConfig) LogWarnings(logger *log.Logger) {
	if !ac.ListStore.IsConfigured() {
		logger.Warn("JSONBIN_BIN_ID or JSONBIN_API_KEY missing; waitlist reads are empty and writes fail")
	}
	if !ac.Sheets.IsConfigured() {
		logger.Warn("GOOGLE_SHEET_ID or GOOGLE_API_KEY missing; sheet forwarding answers with a configuration error")
	}
	if !ac.Admin.IsConfigured() {
		logger.Warn("ADMIN_USERNAME or ADMIN_PASSWORD missing; every admin login will fail")
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	appConfig := NewAppConfig(logger)
	if err := appConfig.Validate(); err != nil {
		return nil, err
	}
	appConfig.LogWarnings(logger)

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	// The database only backs admin sessions, so it is required for that store alone.
	var db *gorm.DB
	if appConfig.SessionStore == constants.SessionStoreDatabase || IsDatabaseConfigured() {
		db, err = NewDatabase(logger, DefaultDBConfig())
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("Database is not configured; proceeding without one")
	}

	if autoMigrate && db != nil {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)
	if appConfig.SessionStore == constants.SessionStoreRedis && cache == nil {
		return nil, fmt.Errorf("SESSION_STORE=%s requires a reachable Redis (REDIS_HOST)", constants.SessionStoreRedis)
	}

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
