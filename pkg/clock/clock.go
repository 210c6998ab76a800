package clock

import (
	"sync"
	"time"
)

// Clock registers periodic callbacks.
type Clock interface {
	// Every invokes fn once per interval until the returned stop function is called.
	// Invocations of one registration never overlap. Stop is idempotent.
	Every(interval time.Duration, fn func()) (stop func())
}

// Real is a Clock backed by time.Ticker.
type Real struct{}

var _ Clock = Real{}

// Every starts a ticker goroutine calling fn on every tick.
// It panics if interval is not positive.
func (Real) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		panic(ErrNonPositiveInterval)
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// A stop racing with a tick wins.
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
