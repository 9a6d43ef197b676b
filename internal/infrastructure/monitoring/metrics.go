package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/turtacn/grc/pkg/constants"
)

// Metrics manages the Prometheus metrics for the policy core.
type Metrics struct {
	PolicyEvaluations *prometheus.CounterVec
	PolicyLatency     *prometheus.HistogramVec
	WorkflowStarts    *prometheus.CounterVec
	FeedbackTriggers  *prometheus.CounterVec
	InheritedReads    *prometheus.CounterVec
}

// NewMetrics creates and registers the Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		PolicyEvaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grc_policy_evaluations_total",
				Help: "Total number of policy evaluations.",
			},
			[]string{"policy", "tenant_id", "result"},
		),
		PolicyLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grc_policy_latency_seconds",
				Help:    "Latency of policy evaluations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"policy"},
		),
		WorkflowStarts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grc_workflow_starts_total",
				Help: "Total number of workflow instances started by policies.",
			},
			[]string{"workflow_code", "result"},
		),
		FeedbackTriggers: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grc_incident_feedback_triggers_total",
				Help: "Total number of incident closures that re-triggered risk evaluation.",
			},
			[]string{"tenant_id", "severity"},
		),
		InheritedReads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grc_inherited_record_reads_total",
				Help: "Total number of record reads served from a parent tenant.",
			},
			[]string{"tenant_id", "resource_type"},
		),
	}
}

// RecordPolicyEvaluation records one policy evaluation with its outcome.
func (m *Metrics) RecordPolicyEvaluation(policy, tenantID, result string, duration time.Duration) {
	m.PolicyEvaluations.WithLabelValues(policy, tenantID, result).Inc()
	m.PolicyLatency.WithLabelValues(policy).Observe(duration.Seconds())
}

// RecordWorkflowStart records a workflow start attempt.
func (m *Metrics) RecordWorkflowStart(code constants.WorkflowCode, result string) {
	m.WorkflowStarts.WithLabelValues(string(code), result).Inc()
}

// RecordFeedbackTrigger records an incident closure that updated risks.
func (m *Metrics) RecordFeedbackTrigger(tenantID string, severity constants.IncidentSeverity) {
	m.FeedbackTriggers.WithLabelValues(tenantID, string(severity)).Inc()
}

// RecordInheritedRead records records served from a parent tenant.
func (m *Metrics) RecordInheritedRead(tenantID string, resourceType constants.ResourceType, count int) {
	m.InheritedReads.WithLabelValues(tenantID, string(resourceType)).Add(float64(count))
}
