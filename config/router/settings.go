package router

import (
	"fmt"
	"strings"

	"github.com/grahmind/careers-waitlist/pkg/utils"
)

const (
	defaultMaxBodyBytes = 1 << 20
	defaultHSTSMaxAge   = 31536000
)

// httpSettings holds the environment-driven knobs of the HTTP surface. They
// are read once when the router is built.
type httpSettings struct {
	trustedProxies []string
	maxBodyBytes   int64
	corsOrigins    map[string]struct{}
	corsAnyOrigin  bool
	hsts           string
}

func loadHTTPSettings() httpSettings {
	s := httpSettings{
		trustedProxies: trustedProxies(utils.GetEnvList("TRUSTED_PROXIES")),
		maxBodyBytes:   utils.GetEnvPositiveInt64("MAX_REQUEST_BODY_BYTES", defaultMaxBodyBytes),
		corsOrigins:    make(map[string]struct{}),
	}

	for _, origin := range utils.GetEnvList("CORS_ALLOWED_ORIGIN") {
		if origin == "*" {
			s.corsAnyOrigin = true
			continue
		}
		s.corsOrigins[origin] = struct{}{}
	}

	production := false
	switch strings.ToLower(utils.GetEnvTrimmed("APP_ENV")) {
	case "prod", "production":
		production = true
	}
	if utils.GetEnvBool("HSTS_ENABLED", production) {
		s.hsts = fmt.Sprintf("max-age=%d", utils.GetEnvPositiveInt64("HSTS_MAX_AGE", defaultHSTSMaxAge))
		if utils.GetEnvBool("HSTS_INCLUDE_SUBDOMAINS", true) {
			s.hsts += "; includeSubDomains"
		}
	}

	return s
}

// trustedProxies expands "*" to every address; nil disables proxy trust so
// ClientIP falls back to RemoteAddr.
func trustedProxies(items []string) []string {
	if len(items) == 1 && items[0] == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}
	return items
}

func (s httpSettings) corsEnabled() bool {
	return s.corsAnyOrigin || len(s.corsOrigins) > 0
}

func (s httpSettings) originAllowed(origin string) bool {
	if s.corsAnyOrigin {
		return true
	}
	_, ok := s.corsOrigins[origin]
	return ok
}
