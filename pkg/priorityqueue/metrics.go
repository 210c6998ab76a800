package priorityqueue

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "priority_queue"

// Completion outcomes used as the "outcome" label.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// metrics holds the scheduler's prometheus collectors.
// A nil *metrics is valid and records nothing.
type metrics struct {
	pending    *prometheus.GaugeVec
	running    prometheus.Gauge
	dispatched *prometheus.CounterVec
	completed  *prometheus.CounterVec
	cleared    *prometheus.CounterVec
	rejected   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, name string) (*metrics, error) {
	labels := prometheus.Labels{"queue": name}

	m := &metrics{
		pending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "pending_tasks",
			Help:        "Number of tasks waiting to be dispatched, by priority.",
			ConstLabels: labels,
		}, []string{"priority"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "running_tasks",
			Help:        "Number of dispatched tasks that have not completed yet.",
			ConstLabels: labels,
		}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "dispatched_total",
			Help:        "Total tasks moved from pending to running, by priority.",
			ConstLabels: labels,
		}, []string{"priority"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "completed_total",
			Help:        "Total dispatched tasks that finished, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		cleared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "cleared_total",
			Help:        "Total pending tasks discarded by Clear, by priority.",
			ConstLabels: labels,
		}, []string{"priority"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "rejected_total",
			Help:        "Total enqueue attempts rejected.",
			ConstLabels: labels,
		}),
	}

	for _, c := range []prometheus.Collector{m.pending, m.running, m.dispatched, m.completed, m.cleared, m.rejected} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register scheduler metrics: %w", err)
		}
	}

	// Expose every tier from the start so dashboards see zeros rather than gaps.
	for _, p := range dispatchOrder {
		m.pending.WithLabelValues(p.String())
		m.dispatched.WithLabelValues(p.String())
		m.cleared.WithLabelValues(p.String())
	}
	m.completed.WithLabelValues(outcomeSuccess)
	m.completed.WithLabelValues(outcomeFailure)

	return m, nil
}

func (m *metrics) setPending(p Priority, n int) {
	if m == nil {
		return
	}
	m.pending.WithLabelValues(p.String()).Set(float64(n))
}

func (m *metrics) setRunning(n int) {
	if m == nil {
		return
	}
	m.running.Set(float64(n))
}

func (m *metrics) dispatch(p Priority) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(p.String()).Inc()
}

func (m *metrics) complete(failed bool) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if failed {
		outcome = outcomeFailure
	}
	m.completed.WithLabelValues(outcome).Inc()
}

func (m *metrics) clear(p Priority, n int) {
	if m == nil {
		return
	}
	m.cleared.WithLabelValues(p.String()).Add(float64(n))
}

func (m *metrics) reject() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}
