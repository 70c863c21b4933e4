package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registrant module. Tracks signup
// outcomes per role and the duration of the registration critical path.
type Metrics struct {
	RegistrationsTotal  *prometheus.CounterVec
	ConflictsTotal      *prometheus.CounterVec
	RegisterDuration    prometheus.Histogram
	NewsletterSignups   prometheus.Counter
	UniquenessChecks    *prometheus.CounterVec
	UniquenessCheckHits prometheus.Counter
}

// New creates a Metrics instance with all registrant module metrics registered.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rezo_registrations_total",
			Help: "Total registrations by role and outcome (created or updated)",
		}, []string{"role", "outcome"}),
		ConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rezo_registration_conflicts_total",
			Help: "Registrations rejected by a uniqueness conflict, by field",
		}, []string{"field"}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rezo_register_duration_seconds",
			Help:    "Duration of registration operations (form submit critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		NewsletterSignups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rezo_newsletter_signups_total",
			Help: "Total newsletter subscriptions",
		}),
		UniquenessChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rezo_uniqueness_checks_total",
			Help: "Pre-submit uniqueness checks by field",
		}, []string{"field"}),
		UniquenessCheckHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rezo_uniqueness_check_hits_total",
			Help: "Pre-submit uniqueness checks that found an existing value",
		}),
	}
}

// RecordRegistration records a completed registration.
func (m *Metrics) RecordRegistration(role, outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(role, outcome).Inc()
}

// RecordConflict records a registration rejected by a uniqueness conflict.
func (m *Metrics) RecordConflict(field string) {
	if m == nil {
		return
	}
	m.ConflictsTotal.WithLabelValues(field).Inc()
}

// ObserveRegister records the duration of a registration operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	if m == nil {
		return
	}
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

// RecordNewsletterSignup records a newsletter subscription.
func (m *Metrics) RecordNewsletterSignup() {
	if m == nil {
		return
	}
	m.NewsletterSignups.Inc()
}

// RecordUniquenessCheck records a pre-submit uniqueness check and whether it
// found an existing value.
func (m *Metrics) RecordUniquenessCheck(field string, taken bool) {
	if m == nil {
		return
	}
	m.UniquenessChecks.WithLabelValues(field).Inc()
	if taken {
		m.UniquenessCheckHits.Inc()
	}
}
