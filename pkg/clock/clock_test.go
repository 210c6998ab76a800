package clock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/asyncpq/pkg/clock"
)

func TestReal_Every(t *testing.T) {
	t.Parallel()

	t.Run("fires until stopped", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		stop := clock.Real{}.Every(5*time.Millisecond, func() { calls.Add(1) })

		assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

		stop()
		stop() // idempotent

		// Allow an in-flight tick to finish before sampling.
		time.Sleep(10 * time.Millisecond)
		settled := calls.Load()
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, settled, calls.Load())
	})

	t.Run("stop from inside callback", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var stop func()
		ready := make(chan struct{})
		stop = clock.Real{}.Every(5*time.Millisecond, func() {
			<-ready
			calls.Add(1)
			stop()
		})
		close(ready)

		assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("non-positive interval panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, clock.ErrNonPositiveInterval, func() {
			clock.Real{}.Every(0, func() {})
		})
	})
}
