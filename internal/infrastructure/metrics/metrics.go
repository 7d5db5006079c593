// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "licenser"

// Dispatch outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
	OutcomeNotFound     = "not_found"
	OutcomeRaw          = "raw"
)

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	activationsTotal *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "dispatch_total",
			Help:      "Remote API requests by action and outcome.",
		}, []string{"action", "outcome"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "dispatch_duration_seconds",
			Help:      "Remote API request latency by action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		activationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "license",
			Name:      "activations_total",
			Help:      "Activation attempts by outcome.",
		}, []string{"outcome"}),
	}
	registry.MustRegister(m.dispatchTotal, m.dispatchDuration, m.activationsTotal)
	return m
}

// ObserveDispatch records one remote API request.
func (m *Metrics) ObserveDispatch(action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(action, outcome).Inc()
	m.dispatchDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveActivation records the outcome of an activation attempt.
func (m *Metrics) ObserveActivation(outcome string) {
	if m == nil {
		return
	}
	m.activationsTotal.WithLabelValues(outcome).Inc()
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
