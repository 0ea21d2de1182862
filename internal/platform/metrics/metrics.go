package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-level Prometheus metrics. Per-area metrics live in
// their own packages (catalog, registration, family).
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	MembersCreated  prometheus.Counter
}

// New creates and registers all platform metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "samadhan_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		MembersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samadhan_members_created_total",
			Help: "Total number of member records created.",
		}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}

// IncrementMembersCreated increments the member creation counter by 1.
func (m *Metrics) IncrementMembersCreated() {
	m.MembersCreated.Inc()
}
