package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grahmind/careers-waitlist/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsPath    = "/metrics"
	unmatchedRoute = "unmatched"
)

type httpMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	labels := []string{"method", "route", "status"}
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route template and status.",
		}, labels),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, labels),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.inFlight)
	return m
}

// observe is the per-request middleware. Scrapes of the metrics endpoint
// itself are not counted.
func (m *httpMetrics) observe(c *gin.Context) {
	if c.Request.URL.Path == metricsPath {
		c.Next()
		return
	}

	m.inFlight.Inc()
	start := time.Now()
	c.Next()
	m.inFlight.Dec()

	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}
	labels := prometheus.Labels{
		"method": c.Request.Method,
		"route":  route,
		"status": strconv.Itoa(c.Writer.Status()),
	}
	m.requests.With(labels).Inc()
	m.latency.With(labels).Observe(time.Since(start).Seconds())
}

func (routerService *RouterService) mountMetrics() {
	if enabled, err := strconv.ParseBool(utils.GetEnvTrimmed("METRICS_ENABLED")); err == nil && !enabled {
		routerService.logger.Info("Metrics disabled", "env", "METRICS_ENABLED")
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	routerService.registry = reg

	routerService.engine.Use(newHTTPMetrics(reg).observe)
	routerService.engine.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	routerService.engine.OPTIONS(metricsPath, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})

	routerService.logger.Info("Metrics endpoint mounted", "path", metricsPath)
}
