package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutboxMetrics records publish outcomes for the outbox dispatcher.
type OutboxMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	deadLet   *prometheus.CounterVec
}

// NewOutboxMetrics registers outbox publish counters on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published",
		Help: "Outbox events published to Pub/Sub.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_failed",
		Help: "Outbox publish attempts that failed.",
	}, []string{"event_type"})
	deadLet := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_dead_lettered",
		Help: "Outbox events moved to the DLQ.",
	}, []string{"event_type"})
	reg.MustRegister(published, failed, deadLet)
	return &OutboxMetrics{
		published: published,
		failed:    failed,
		deadLet:   deadLet,
	}
}

// IncPublished increments the published counter for the event type.
func (m *OutboxMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failed counter for the event type.
func (m *OutboxMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDeadLettered increments the DLQ counter for the event type.
func (m *OutboxMetrics) IncDeadLettered(eventType string) {
	if m == nil || m.deadLet == nil {
		return
	}
	m.deadLet.WithLabelValues(normalizeLabel(eventType)).Inc()
}
