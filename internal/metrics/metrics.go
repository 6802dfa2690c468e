// Package metrics exposes Prometheus collectors for the use cases, the
// repository and the state store. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shoplist"

// Outcome labels for use case executions.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds every collector of the service.
type Metrics struct {
	registry      *prometheus.Registry
	useCaseTotal  *prometheus.CounterVec
	useCaseTime   *prometheus.HistogramVec
	queryDuration *prometheus.HistogramVec
	mutations     *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		useCaseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usecase_total",
			Help:      "Use case executions by operation and outcome.",
		}, []string{"op", "outcome"}),
		useCaseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "usecase_duration_seconds",
			Help:      "Use case execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repository_query_duration_seconds",
			Help:      "Repository query time by method and status.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"method", "status"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_mutations_total",
			Help:      "Optimistic state store mutations by action and final state.",
		}, []string{"action", "state"}),
	}

	m.registry.MustRegister(
		m.useCaseTotal,
		m.useCaseTime,
		m.queryDuration,
		m.mutations,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUseCase records one use case execution.
func (m *Metrics) ObserveUseCase(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.useCaseTotal.WithLabelValues(op, outcome).Inc()
	m.useCaseTime.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveQuery records the duration of one repository call.
func (m *Metrics) ObserveQuery(method string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.queryDuration.WithLabelValues(method, status).Observe(elapsed.Seconds())
}

// StateMutation counts a state store mutation reaching a final state.
func (m *Metrics) StateMutation(action, state string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(action, state).Inc()
}
