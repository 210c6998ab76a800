package priorityqueue_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/asyncpq/pkg/async"
	"github.com/dmitrymomot/asyncpq/pkg/priorityqueue"
)

// metricValue returns the value of the sample of family name whose labels include want.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			if m.GetGauge() != nil {
				return m.GetGauge().GetValue()
			}
			return m.GetCounter().GetValue()
		}
	}

	t.Fatalf("metric %s with labels %v not found", name, want)
	return 0
}

func TestScheduler_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	s, clk := newManualScheduler(t, priorityqueue.WithMetrics(reg), priorityqueue.WithName("api"))

	queue := map[string]string{"queue": "api"}
	with := func(k, v string) map[string]string {
		return map[string]string{"queue": "api", k: v}
	}

	assert.Zero(t, metricValue(t, reg, "priority_queue_pending_tasks", with("priority", "high")))

	ok := newStub("ok", priorityqueue.PriorityHigh, nil)
	bad := newStub("bad", priorityqueue.PriorityLow, nil)
	require.NoError(t, s.Enqueue(ok.task))
	require.NoError(t, s.Enqueue(bad.task))
	require.NoError(t, s.Enqueue(newStub("cleared", priorityqueue.PriorityMid, nil).task))
	require.Error(t, s.Enqueue(newStub("invalid", priorityqueue.Priority(5), nil).task))

	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_pending_tasks", with("priority", "high")))
	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_pending_tasks", with("priority", "mid")))
	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_rejected_total", queue))

	_, err := s.Clear(priorityqueue.PriorityMid)
	require.NoError(t, err)
	assert.Zero(t, metricValue(t, reg, "priority_queue_pending_tasks", with("priority", "mid")))
	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_cleared_total", with("priority", "mid")))

	require.NoError(t, s.Start())
	advanceTicks(clk, 2)

	assert.Equal(t, 2.0, metricValue(t, reg, "priority_queue_running_tasks", queue))
	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_dispatched_total", with("priority", "high")))
	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_dispatched_total", with("priority", "low")))
	assert.Zero(t, metricValue(t, reg, "priority_queue_pending_tasks", with("priority", "low")))

	ok.deferred.Resolve("done")
	bad.deferred.Reject(errors.New("nope"))

	assert.Zero(t, metricValue(t, reg, "priority_queue_running_tasks", queue))
	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_completed_total", with("outcome", "success")))
	assert.Equal(t, 1.0, metricValue(t, reg, "priority_queue_completed_total", with("outcome", "failure")))
}

func TestScheduler_MetricsTrackDepthUnderContention(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	s, _ := newManualScheduler(t, priorityqueue.WithMetrics(reg), priorityqueue.WithName("busy"))

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%4 == 0 {
				_, _ = s.Clear(priorityqueue.PriorityMid)
				return
			}
			_ = s.Enqueue(priorityqueue.NewTask(func() *async.Future[int] {
				return async.Resolved(i)
			}, priorityqueue.WithPriority(priorityqueue.PriorityMid)))
		}()
	}
	wg.Wait()

	gauge := metricValue(t, reg, "priority_queue_pending_tasks",
		map[string]string{"queue": "busy", "priority": "mid"})
	assert.Equal(t, float64(s.Pending(priorityqueue.PriorityMid)), gauge)
}

func TestScheduler_MetricsRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	_, err := priorityqueue.New(priorityqueue.WithMetrics(reg), priorityqueue.WithName("a"))
	require.NoError(t, err)

	_, err = priorityqueue.New(priorityqueue.WithMetrics(reg), priorityqueue.WithName("b"))
	require.NoError(t, err, "distinct names register side by side")

	_, err = priorityqueue.New(priorityqueue.WithMetrics(reg), priorityqueue.WithName("a"))
	assert.Error(t, err)
}
