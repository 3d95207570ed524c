// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics provides Prometheus metrics for the voting service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-vote/workflow"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Workflow metrics
	SessionsCreated     prometheus.Counter
	SessionsByPhase     *prometheus.GaugeVec
	VotersRegistered    prometheus.Counter
	ProposalsRegistered prometheus.Counter
	VotesCast           prometheus.Counter
	PhaseTransitions    *prometheus.CounterVec
	OperationErrors     *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the metrics under namespace on reg. A nil reg
// uses a fresh registry.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of voting sessions created",
		}),
		SessionsByPhase: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_by_phase",
			Help:      "Number of voting sessions currently in each workflow phase",
		}, []string{"phase"}),
		VotersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voters_registered_total",
			Help:      "Total number of voters registered",
		}),
		ProposalsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_registered_total",
			Help:      "Total number of proposals registered",
		}),
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Total number of votes cast",
		}),
		PhaseTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Total number of workflow transitions by target phase",
		}, []string{"phase"}),
		OperationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Total number of rejected workflow operations by error kind",
		}, []string{"kind"}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		gatherer: reg,
	}
}

// Observe is a workflow.Listener that counts emitted events.
func (m *Metrics) Observe(ev workflow.Event) {
	switch ev := ev.(type) {
	case workflow.VoterRegistered:
		m.VotersRegistered.Inc()
	case workflow.ProposalRegistered:
		m.ProposalsRegistered.Inc()
	case workflow.Voted:
		m.VotesCast.Inc()
	case workflow.WorkflowStatusChange:
		m.PhaseTransitions.WithLabelValues(ev.NewStatus.String()).Inc()
		m.SessionsByPhase.WithLabelValues(ev.PreviousStatus.String()).Dec()
		m.SessionsByPhase.WithLabelValues(ev.NewStatus.String()).Inc()
	}
}

// TrackSession counts a session entering phase, either newly created or
// restored from the journal.
func (m *Metrics) TrackSession(phase workflow.Phase) {
	m.SessionsByPhase.WithLabelValues(phase.String()).Inc()
}

// Handler serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
