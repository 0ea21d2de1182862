package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks family reconciliation activity.
type Metrics struct {
	MembershipChanges *prometheus.CounterVec
	Repairs           *prometheus.CounterVec
	SweepDuration     prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		MembershipChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_family_membership_changes_total",
			Help: "Family membership mutations by kind.",
		}, []string{"kind"}),
		Repairs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_family_repairs_total",
			Help: "One-sided references repaired by the reconciliation sweep.",
		}, []string{"kind"}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "samadhan_family_sweep_duration_seconds",
			Help:    "Reconciliation sweep latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordMembershipChange(kind string) {
	m.MembershipChanges.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordRepair(kind string) {
	m.Repairs.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveSweepDuration(seconds float64) {
	m.SweepDuration.Observe(seconds)
}
