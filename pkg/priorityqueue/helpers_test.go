package priorityqueue_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/asyncpq/pkg/async"
	"github.com/dmitrymomot/asyncpq/pkg/clock"
	"github.com/dmitrymomot/asyncpq/pkg/priorityqueue"
)

const tick = priorityqueue.DefaultProcessingFrequency

// stub is a task whose operation records invocations and stays pending
// until the test settles it.
type stub struct {
	name     string
	calls    int
	deferred *async.Deferred[string]
	task     *priorityqueue.Task[string]
}

func newStub(name string, p priorityqueue.Priority, dispatched *[]string) *stub {
	pr := &stub{name: name, deferred: async.Defer[string]()}
	pr.task = priorityqueue.NewTask(func() *async.Future[string] {
		pr.calls++
		if dispatched != nil {
			*dispatched = append(*dispatched, name)
		}
		return pr.deferred.Future()
	}, priorityqueue.WithPriority(p))
	return pr
}

func newManualScheduler(t *testing.T, opts ...priorityqueue.Option) (*priorityqueue.Scheduler, *clock.Manual) {
	t.Helper()

	clk := clock.NewManual()
	s, err := priorityqueue.New(append([]priorityqueue.Option{priorityqueue.WithClock(clk)}, opts...)...)
	require.NoError(t, err)
	return s, clk
}

// advanceTicks moves the clock forward by n full processing intervals.
func advanceTicks(clk *clock.Manual, n int) {
	clk.Advance(time.Duration(n) * tick)
}

// syncBuffer collects JSON log lines written from several goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) entries(t *testing.T) []map[string]any {
	t.Helper()

	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}
