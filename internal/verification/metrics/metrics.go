package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	CodesIssued        prometheus.Counter
	CooldownRejections prometheus.Counter
	Confirmations      *prometheus.CounterVec
}

// New creates a Metrics instance with all verification module metrics registered.
func New() *Metrics {
	return &Metrics{
		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rezo_verification_codes_issued_total",
			Help: "Total verification codes generated and emailed",
		}),
		CooldownRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rezo_verification_cooldown_rejections_total",
			Help: "Code requests rejected by the resend cooldown",
		}),
		Confirmations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rezo_verification_confirmations_total",
			Help: "Code confirmation attempts by outcome (ok, invalid, expired)",
		}, []string{"outcome"}),
	}
}

// RecordIssued records a successfully issued code.
func (m *Metrics) RecordIssued() {
	if m == nil {
		return
	}
	m.CodesIssued.Inc()
}

// RecordCooldownRejection records a request rejected by the resend cooldown.
func (m *Metrics) RecordCooldownRejection() {
	if m == nil {
		return
	}
	m.CooldownRejections.Inc()
}

// RecordConfirmation records a confirmation attempt outcome.
func (m *Metrics) RecordConfirmation(outcome string) {
	if m == nil {
		return
	}
	m.Confirmations.WithLabelValues(outcome).Inc()
}
