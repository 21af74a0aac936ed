// Package metrics exposes Prometheus metrics for the KYC pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels a finished submission.
type Outcome string

const (
	OutcomeVerified Outcome = "verified"
	OutcomeRejected Outcome = "rejected"
	OutcomeFraud    Outcome = "fraud"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeConflict Outcome = "conflict"
	OutcomeFailed   Outcome = "failed"
)

// Metrics provides observability for the verification pipeline.
type Metrics struct {
	Submissions      *prometheus.CounterVec
	FraudDetections  prometheus.Counter
	RiskScore        prometheus.Histogram
	PipelineDuration prometheus.Histogram
	AMLChecks        *prometheus.CounterVec
	NotifierFailures prometheus.Counter
	Compensations    *prometheus.CounterVec
}

// New registers the KYC metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_submissions_total",
			Help: "Total number of verification submissions, by outcome",
		}, []string{"outcome"}),
		FraudDetections: factory.NewCounter(prometheus.CounterOpts{
			Name: "kyc_fraud_detections_total",
			Help: "Total number of submissions rejected by the authenticity analyzer",
		}),
		RiskScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_risk_score",
			Help:    "Distribution of assigned risk scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_submit_duration_seconds",
			Help:    "Duration of the full submission pipeline",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		AMLChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_aml_checks_total",
			Help: "Total number of AML screenings, by risk level",
		}, []string{"level"}),
		NotifierFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "kyc_approval_notifier_failures_total",
			Help: "Total number of approval notifications that failed to deliver",
		}),
		Compensations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_compensations_total",
			Help: "Total number of rollbacks of a PENDING marker, by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncSubmission(outcome Outcome) {
	m.Submissions.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) IncFraudDetected() {
	m.FraudDetections.Inc()
}

func (m *Metrics) ObserveRiskScore(score int) {
	m.RiskScore.Observe(float64(score))
}

// ObservePipeline records the duration of a Submit call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePipeline(start time.Time) {
	m.PipelineDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncAMLCheck(level string) {
	m.AMLChecks.WithLabelValues(level).Inc()
}

func (m *Metrics) IncNotifierFailure() {
	m.NotifierFailures.Inc()
}

func (m *Metrics) IncCompensation(ok bool) {
	result := "restored"
	if !ok {
		result = "failed"
	}
	m.Compensations.WithLabelValues(result).Inc()
}
