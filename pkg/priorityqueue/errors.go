package priorityqueue

import "errors"

var (
	// ErrInvalidPriority is returned when a priority is not one of low, mid or high
	ErrInvalidPriority = errors.New("invalid priority: use low, mid or high")

	// ErrNilJob is returned when enqueueing a nil job
	ErrNilJob = errors.New("job cannot be nil")

	// ErrDuplicateJob is returned when a job is enqueued while already pending or running
	ErrDuplicateJob = errors.New("job is already pending or running")

	// ErrAlreadyStarted is returned by Start when the dispatch tick is already armed
	ErrAlreadyStarted = errors.New("scheduler already started")

	// ErrInvalidConfig is returned when max parallelism or processing frequency is not positive
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrNilOperation fails the completion of a task built without an operation
	ErrNilOperation = errors.New("task operation cannot be nil")

	// ErrNilFuture fails the completion of a task whose operation returned no future
	ErrNilFuture = errors.New("task operation returned a nil future")

	// ErrTaskPanicked fails the completion of a task whose operation panicked
	ErrTaskPanicked = errors.New("task operation panicked")
)
