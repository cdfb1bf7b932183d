package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Each instance carries its own
// registry so servers can be constructed repeatedly in tests.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Refresh metrics
	RefreshCycles   *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	CatalogAddons   prometheus.Gauge
	SkippedRecords  prometheus.Counter

	// Ledger metrics
	LedgerEntries prometheus.Gauge
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addon_proxy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "addon_proxy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RefreshCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addon_proxy_refresh_cycles_total",
				Help: "Catalog refresh cycles by outcome",
			},
			[]string{"status"},
		),
		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "addon_proxy_refresh_duration_seconds",
				Help:    "Catalog refresh cycle duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		CatalogAddons: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "addon_proxy_catalog_addons",
				Help: "Addons in the current catalog snapshot",
			},
		),
		SkippedRecords: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "addon_proxy_skipped_records_total",
				Help: "Malformed upstream records skipped during snapshot construction",
			},
		),
		LedgerEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "addon_proxy_ledger_entries",
				Help: "Entries currently held in the request ledger",
			},
		),
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRefresh records the outcome of one refresh cycle.
func (m *Metrics) RecordRefresh(status string, duration time.Duration) {
	m.RefreshCycles.WithLabelValues(status).Inc()
	m.RefreshDuration.Observe(duration.Seconds())
}

// Handler returns the Prometheus exposition handler for this instance's
// registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
