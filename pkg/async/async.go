package async

import (
	"context"
	"sync"
	"time"
)

// Awaitable is the type-agnostic view of a Future. It lets callers observe
// completion of futures with different result types through one interface.
type Awaitable interface {
	// Done returns a channel closed once the future has settled.
	Done() <-chan struct{}
	// Err returns the failure value, or nil while pending or after success.
	Err() error
	// IsComplete reports whether the future has settled.
	IsComplete() bool
	// Finally registers fn to run once the future settles, whatever the outcome.
	Finally(fn func())
}

// Future represents the result of an asynchronous computation.
// A Future settles exactly once, either with a result or with an error.
type Future[U any] struct {
	mu        sync.Mutex
	result    U
	err       error
	settled   bool
	done      chan struct{}
	observers []func()
}

var _ Awaitable = (*Future[any])(nil)

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// settle stores the outcome and fires the registered observers.
// Only the first call has an effect; it reports whether it won.
func (f *Future[U]) settle(result U, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.result = result
	f.err = err
	observers := f.observers
	f.observers = nil
	close(f.done)
	f.mu.Unlock()

	// Observers run outside the lock so they may register further observers.
	for _, fn := range observers {
		fn()
	}
	return true
}

// observe runs fn after settlement: later if still pending, right away otherwise.
func (f *Future[U]) observe(fn func()) {
	f.mu.Lock()
	if !f.settled {
		f.observers = append(f.observers, fn)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	fn()
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// Returns the result and error if the function completes before the timeout.
// If the timeout occurs before completion, returns a timeout error.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
// Returns true if the function has completed, false otherwise.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the future settles.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Err returns the error the future failed with.
// It returns nil while the future is pending and after a successful settlement.
func (f *Future[U]) Err() error {
	if !f.IsComplete() {
		return nil
	}
	return f.err
}

// Then registers observers for the two outcomes of the future.
// Observers registered before settlement fire exactly once, on the goroutine
// that settles the future. Observers registered after settlement fire
// immediately on the calling goroutine. Nil callbacks are skipped.
func (f *Future[U]) Then(onSuccess func(U), onFailure func(error)) {
	if onSuccess == nil && onFailure == nil {
		return
	}
	f.observe(func() {
		if f.err != nil {
			if onFailure != nil {
				onFailure(f.err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(f.result)
		}
	})
}

// Finally registers fn to run once the future settles, on success and failure alike.
func (f *Future[U]) Finally(fn func()) {
	if fn == nil {
		return
	}
	f.observe(fn)
}

// Resolved returns a future already settled with result.
func Resolved[U any](result U) *Future[U] {
	f := newFuture[U]()
	f.settle(result, nil)
	return f
}

// Rejected returns a future already failed with err.
// A nil err is replaced with ErrNilRejection.
func Rejected[U any](err error) *Future[U] {
	if err == nil {
		err = ErrNilRejection
	}
	var zero U
	f := newFuture[U]()
	f.settle(zero, err)
	return f
}

// Async executes a function asynchronously and returns a Future.
// The function accepts a context.Context and a parameter of any type T, and returns (U, error).
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		// Early exit prevents goroutine leak when context is pre-canceled
		select {
		case <-ctx.Done():
			var zero U
			f.settle(zero, ctx.Err())
			return
		default:
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}

// WaitAll waits for all futures to complete and returns a slice of their results and an error
// if any of the futures returned an error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// WaitAny waits for any of the futures to complete and returns the index of the completed future,
// its result, and any error it might have returned.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index  int
		result U
		err    error
	}

	// Buffered so late finishers never block after the first one is taken.
	done := make(chan outcome, len(futures))

	for i, future := range futures {
		future.Finally(func() {
			done <- outcome{i, future.result, future.err}
		})
	}

	res := <-done
	return res.index, res.result, res.err
}
