// Package metrics records ledger load and cache activity for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcomes used as the status label.
const (
	StatusSuccess      = "success"
	StatusFetchFailed  = "fetch_failed"
	StatusInvalidSheet = "invalid_sheet"
)

// Recorder is implemented by anything that tracks loader activity.
type Recorder interface {
	RecordLoad(sourceKind, status string)
	RecordCacheHit()
	RecordCacheMiss()
	RecordFetchDuration(sourceKind string, d time.Duration)
	RecordNormalizationError(kind string)
	RecordLedgerSize(rows int)
}

// PrometheusRecorder registers its collectors on a private registry so
// several instances can coexist in one process.
type PrometheusRecorder struct {
	registry            *prometheus.Registry
	loadsTotal          *prometheus.CounterVec
	cacheLookups        *prometheus.CounterVec
	fetchDuration       *prometheus.HistogramVec
	normalizationErrors *prometheus.CounterVec
	ledgerRows          prometheus.Gauge
}

// NewPrometheusRecorder creates a recorder with a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		loadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_loads_total",
				Help: "Total number of ledger loads that reached the source",
			},
			[]string{"source_kind", "status"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_cache_lookups_total",
				Help: "Ledger cache lookups by result",
			},
			[]string{"result"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_fetch_duration_milliseconds",
				Help:    "Time spent fetching and normalizing a ledger in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
			[]string{"source_kind"},
		),
		normalizationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_normalization_errors_total",
				Help: "Sheets rejected by the normalizer, by error kind",
			},
			[]string{"kind"},
		),
		ledgerRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_transactions",
				Help: "Number of transactions in the most recently loaded ledger",
			},
		),
	}
}

func (m *PrometheusRecorder) RecordLoad(sourceKind, status string) {
	m.loadsTotal.WithLabelValues(sourceKind, status).Inc()
}

func (m *PrometheusRecorder) RecordCacheHit() {
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *PrometheusRecorder) RecordCacheMiss() {
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *PrometheusRecorder) RecordFetchDuration(sourceKind string, d time.Duration) {
	m.fetchDuration.WithLabelValues(sourceKind).Observe(float64(d.Milliseconds()))
}

func (m *PrometheusRecorder) RecordNormalizationError(kind string) {
	m.normalizationErrors.WithLabelValues(kind).Inc()
}

func (m *PrometheusRecorder) RecordLedgerSize(rows int) {
	m.ledgerRows.Set(float64(rows))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *PrometheusRecorder) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordLoad(string, string)                 {}
func (NopRecorder) RecordCacheHit()                           {}
func (NopRecorder) RecordCacheMiss()                          {}
func (NopRecorder) RecordFetchDuration(string, time.Duration) {}
func (NopRecorder) RecordNormalizationError(string)           {}
func (NopRecorder) RecordLedgerSize(int)                      {}
