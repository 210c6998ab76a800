package priorityqueue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/asyncpq/pkg/async"
)

// Operation is the asynchronous unit of work wrapped by a Task.
type Operation[T any] func() *async.Future[T]

// FromFunc adapts a blocking function into an Operation that runs it in its own goroutine.
func FromFunc[T any](ctx context.Context, fn func(context.Context) (T, error)) Operation[T] {
	return func() *async.Future[T] {
		return async.Async(ctx, struct{}{}, func(ctx context.Context, _ struct{}) (T, error) {
			return fn(ctx)
		})
	}
}

// Job is the unit the Scheduler queues and dispatches.
// *Task implements it for every result type.
type Job interface {
	ID() uuid.UUID
	Priority() Priority
	// Execute starts the work and returns a handle that settles when it finishes.
	Execute() async.Awaitable
}

// Task wraps an Operation with a priority and a completion future that mirrors
// the operation's outcome.
type Task[T any] struct {
	id         uuid.UUID
	priority   Priority
	operation  Operation[T]
	completion *async.Deferred[T]
	once       sync.Once
}

var _ Job = (*Task[any])(nil)

// TaskOption is a functional option for configuring a task
type TaskOption func(*taskOptions)

type taskOptions struct {
	priority Priority
}

// WithPriority sets the tier the task is queued in.
// The value is not validated here; Scheduler.Enqueue rejects unknown tiers.
func WithPriority(p Priority) TaskOption {
	return func(o *taskOptions) {
		o.priority = p
	}
}

// NewTask creates a task for op. The default priority is PriorityLow.
func NewTask[T any](op Operation[T], opts ...TaskOption) *Task[T] {
	options := &taskOptions{priority: PriorityLow}
	for _, opt := range opts {
		opt(options)
	}

	return &Task[T]{
		id:         uuid.New(),
		priority:   options.priority,
		operation:  op,
		completion: async.Defer[T](),
	}
}

// ID returns the task identifier.
func (t *Task[T]) ID() uuid.UUID { return t.id }

// Priority returns the tier the task was created with.
func (t *Task[T]) Priority() Priority { return t.priority }

// Completion returns the future settled with the operation's outcome.
// It is available before the task runs, so observers can be attached up front.
func (t *Task[T]) Completion() *async.Future[T] {
	return t.completion.Future()
}

// Execute invokes the operation exactly once and routes its outcome into the
// completion future, which is returned. Later calls return the same future
// without invoking the operation again.
func (t *Task[T]) Execute() async.Awaitable {
	t.once.Do(t.run)
	return t.completion.Future()
}

func (t *Task[T]) run() {
	defer func() {
		if r := recover(); r != nil {
			t.completion.Reject(fmt.Errorf("%w: %v", ErrTaskPanicked, r))
		}
	}()

	if t.operation == nil {
		t.completion.Reject(ErrNilOperation)
		return
	}

	result := t.operation()
	if result == nil {
		t.completion.Reject(ErrNilFuture)
		return
	}

	result.Then(
		func(v T) { t.completion.Resolve(v) },
		func(err error) { t.completion.Reject(err) },
	)
}
