package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks catalog cache effectiveness.
type Metrics struct {
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_catalog_cache_hits_total",
			Help: "Catalog cache hits by record type.",
		}, []string{"record_type"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_catalog_cache_misses_total",
			Help: "Catalog cache misses by record type.",
		}, []string{"record_type"}),
		LookupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "samadhan_catalog_lookup_duration_seconds",
			Help:    "Catalog lookup latency by record type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"record_type"}),
	}
}

func (m *Metrics) RecordCacheHit(recordType string) {
	m.CacheHits.WithLabelValues(recordType).Inc()
}

func (m *Metrics) RecordCacheMiss(recordType string) {
	m.CacheMisses.WithLabelValues(recordType).Inc()
}

func (m *Metrics) ObserveLookupDuration(recordType string, seconds float64) {
	m.LookupDuration.WithLabelValues(recordType).Observe(seconds)
}
