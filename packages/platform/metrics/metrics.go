// Package metrics exposes Prometheus metrics for the HTTP layer and the
// standings ledger on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tournament"

type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	schedulesGenerated prometheus.Counter
	fixturesGenerated  prometheus.Counter
	settlements        *prometheus.CounterVec
	ledgerDrift        prometheus.Gauge
	ledgerAudits       prometheus.Counter
}

func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		schedulesGenerated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "generated_total",
			Help:      "Number of schedules generated",
		}),
		fixturesGenerated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "fixtures_generated_total",
			Help:      "Number of matches created by schedule generation",
		}),
		settlements: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "settlements_total",
			Help:      "Points settlements applied to the standings, by operation",
		}, []string{"operation"}),
		ledgerDrift: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "drifted_teams",
			Help:      "Teams whose stored points differed from their played matches at the last audit",
		}),
		ledgerAudits: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "audits_total",
			Help:      "Number of ledger audits run",
		}),
	}
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records request count and latency labelled by route
// template, so path ids do not explode cardinality.
func (m *Manager) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

func (m *Manager) ScheduleGenerated(fixtures int) {
	m.schedulesGenerated.Inc()
	m.fixturesGenerated.Add(float64(fixtures))
}

func (m *Manager) PointsSettled(operation string) {
	m.settlements.WithLabelValues(operation).Inc()
}

func (m *Manager) LedgerAudited(drifts int) {
	m.ledgerAudits.Inc()
	m.ledgerDrift.Set(float64(drifts))
}
