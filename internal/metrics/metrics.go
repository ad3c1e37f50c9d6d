// Package metrics exposes Prometheus counters for the site's interactions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry so tests can build independent instances.
type Metrics struct {
	reg *prometheus.Registry

	ReqDuration  *prometheus.HistogramVec
	Downloads    *prometheus.CounterVec
	Submissions  *prometheus.CounterVec
	ThemeToggles *prometheus.CounterVec
	ScrollEvents *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		ReqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: []float64{0.01, 0.1, 0.3, 1.2, 5},
		}, []string{"route", "method", "status"}),
		Downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_cv_downloads_total",
			Help: "CV downloads by variant.",
		}, []string{"variant"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		ThemeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_theme_toggles_total",
			Help: "Theme toggles by resulting theme.",
		}, []string{"theme"}),
		ScrollEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_scroll_updates_total",
			Help: "Scroll updates by result (active, gap, throttled).",
		}, []string{"result"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ReqDuration, m.Downloads, m.Submissions, m.ThemeToggles, m.ScrollEvents,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware records request durations by route pattern so path
// parameters do not blow up label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ReqDuration.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
