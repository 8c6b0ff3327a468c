package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_cms",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront_cms",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	saves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_cms",
			Subsystem: "composer",
			Name:      "saves_total",
			Help:      "Page save attempts by trigger and outcome.",
		},
		[]string{"mode", "result"},
	)

	decodeSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront_cms",
			Subsystem: "composer",
			Name:      "decode_skipped_total",
			Help:      "Component tags skipped because they could not be decoded.",
		},
	)

	defaultsFallback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront_cms",
			Subsystem: "composer",
			Name:      "defaults_fallback_total",
			Help:      "Component defaults served from the hardcoded fallback.",
		},
	)

	openSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storefront_cms",
			Subsystem: "composer",
			Name:      "open_sessions",
			Help:      "Editing sessions currently open.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		saves,
		decodeSkipped,
		defaultsFallback,
		openSessions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if path == "/metrics" {
			return
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordSave counts one save attempt. mode is manual, autosave or followup.
func RecordSave(mode, result string) {
	saves.WithLabelValues(mode, result).Inc()
}

func RecordDecodeSkipped(n int) {
	if n <= 0 {
		return
	}
	decodeSkipped.Add(float64(n))
}

func RecordDefaultsFallback() {
	defaultsFallback.Inc()
}

func SessionOpened() { openSessions.Inc() }
func SessionClosed() { openSessions.Dec() }
