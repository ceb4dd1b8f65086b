package constants

import "time"

// Rate limiting is opt-in; these apply once RATE_LIMIT_REQUESTS is set.
const (
	DefaultRateLimitWindow = time.Minute

	AdminLoginRequestsPerMinute = 10
	MonitoringRequestsPerMinute = 10
)

const (
	DefaultRequestTimeout = 30 * time.Second

	// DefaultAdminLoginDelay is the pause before every credential check.
	DefaultAdminLoginDelay = time.Second

	AdminSessionCookieName = "admin_session"

	DefaultStatsSchedule = "@every 15m"
	DefaultTimezone      = "UTC"
)

// Session store backends selectable with SESSION_STORE.
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStoreDatabase = "database"
)
