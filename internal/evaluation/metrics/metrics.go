package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the evaluation workflow.
type Metrics struct {
	// Applications created, by initial status (submitted or pre-filter rejected)
	ApplicationsSubmitted *prometheus.CounterVec

	// Treatments recorded by derived decision
	TreatmentsRecorded *prometheus.CounterVec

	// Round outcomes by round number and outcome
	RoundOutcomes *prometheus.CounterVec

	// Rejected operations by error code
	Rejections *prometheus.CounterVec

	AppealsFiled    prometheus.Counter
	AppealsResolved *prometheus.CounterVec

	// Notifications that could not be handed to the sink
	NotificationFailures prometheus.Counter

	// Time spent inside the per-application exclusive scope
	ScopeLatency *prometheus.HistogramVec
}

// New registers the evaluation metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_applications_submitted_total",
			Help: "Applications created by initial status",
		}, []string{"status"}),

		TreatmentsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_treatments_recorded_total",
			Help: "Evaluator treatments recorded by derived decision",
		}, []string{"decision"}),

		RoundOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_round_outcomes_total",
			Help: "Aggregated round outcomes by round and outcome",
		}, []string{"round", "outcome"}),

		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_rejected_operations_total",
			Help: "Operations refused by the workflow, by operation and error code",
		}, []string{"operation", "code"}),

		AppealsFiled: factory.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_appeals_filed_total",
			Help: "Appeals filed by rejected candidates",
		}),

		AppealsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_appeals_resolved_total",
			Help: "Appeals resolved by outcome",
		}, []string{"outcome"}),

		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_notification_failures_total",
			Help: "Notifications dropped because the sink failed",
		}),

		ScopeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evaluation_exclusive_scope_duration_seconds",
			Help:    "Duration of per-application exclusive scopes by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncApplicationSubmitted(status string) {
	if m != nil {
		m.ApplicationsSubmitted.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncTreatmentRecorded(decision string) {
	if m != nil {
		m.TreatmentsRecorded.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) IncRoundOutcome(round int, outcome string) {
	if m != nil {
		m.RoundOutcomes.WithLabelValues(strconv.Itoa(round), outcome).Inc()
	}
}

func (m *Metrics) IncRejection(operation, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(operation, code).Inc()
	}
}

func (m *Metrics) IncAppealFiled() {
	if m != nil {
		m.AppealsFiled.Inc()
	}
}

func (m *Metrics) IncAppealResolved(outcome string) {
	if m != nil {
		m.AppealsResolved.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncNotificationFailure() {
	if m != nil {
		m.NotificationFailures.Inc()
	}
}

func (m *Metrics) ObserveScope(operation string, d time.Duration) {
	if m != nil {
		m.ScopeLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
