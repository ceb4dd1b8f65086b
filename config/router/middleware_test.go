package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS_AllowsListedOriginsOnly(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://careers.example.com, https://admin.example.com")
	rs := newTestRouterService(t)
	mountTestController(rs)

	preflight := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	preflight.Header.Set("Origin", "https://admin.example.com")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, preflight)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	other := httptest.NewRequest(http.MethodGet, "/ip", nil)
	other.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, other)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	t.Setenv("HSTS_ENABLED", "true")
	t.Setenv("HSTS_MAX_AGE", "600")
	t.Setenv("HSTS_INCLUDE_SUBDOMAINS", "false")
	rs := newTestRouterService(t)
	mountTestController(rs)

	plain := serveTest(rs, http.MethodGet, "/ip")
	assert.Equal(t, "nosniff", plain.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, plain.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-Proto", "HTTPS")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	assert.Equal(t, "max-age=600", w.Header().Get("Strict-Transport-Security"))
}

func TestCorrelationID_EchoedOrGenerated(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set(correlationHeader, "req-123")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(correlationHeader))

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set(correlationHeader, strings.Repeat("x", maxCorrelationIDLength+1))
	w = httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	generated := w.Header().Get(correlationHeader)
	assert.NotEmpty(t, generated)
	assert.LessOrEqual(t, len(generated), maxCorrelationIDLength)
}

func TestLoadHTTPSettings_Defaults(t *testing.T) {
	for _, key := range []string{"TRUSTED_PROXIES", "MAX_REQUEST_BODY_BYTES", "CORS_ALLOWED_ORIGIN", "HSTS_ENABLED", "HSTS_MAX_AGE", "HSTS_INCLUDE_SUBDOMAINS", "APP_ENV"} {
		t.Setenv(key, "")
	}

	s := loadHTTPSettings()

	assert.Nil(t, s.trustedProxies)
	assert.Equal(t, int64(defaultMaxBodyBytes), s.maxBodyBytes)
	assert.False(t, s.corsEnabled())
	assert.Empty(t, s.hsts)

	t.Setenv("APP_ENV", "production")
	assert.Equal(t, "max-age=31536000; includeSubDomains", loadHTTPSettings().hsts)
}
