package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the registration funnel.
type Metrics struct {
	Evaluations          *prometheus.CounterVec
	Registrations        *prometheus.CounterVec
	DuplicateResolutions *prometheus.CounterVec
	SessionsPurged       prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_eligibility_evaluations_total",
			Help: "Eligibility passes by entity type and result.",
		}, []string{"entity", "result"}),
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_registrations_total",
			Help: "Completed registrations by outcome.",
		}, []string{"outcome"}),
		DuplicateResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samadhan_duplicate_resolutions_total",
			Help: "Duplicate natural-key hits by agent decision.",
		}, []string{"decision"}),
		SessionsPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samadhan_sessions_purged_total",
			Help: "Registration sessions evicted after their TTL.",
		}),
	}
}

// RecordEvaluations counts one eligibility pass over total entities of which
// eligible passed.
func (m *Metrics) RecordEvaluations(entity string, eligible, total int) {
	m.Evaluations.WithLabelValues(entity, "eligible").Add(float64(eligible))
	m.Evaluations.WithLabelValues(entity, "ineligible").Add(float64(total - eligible))
}

func (m *Metrics) RecordRegistration(outcome string) {
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordDuplicateResolution(decision string) {
	m.DuplicateResolutions.WithLabelValues(decision).Inc()
}

func (m *Metrics) RecordSessionsPurged(count int) {
	m.SessionsPurged.Add(float64(count))
}
