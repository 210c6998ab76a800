// Package priorityqueue throttles asynchronous work: it keeps at most a fixed
// number of tasks running at once and, on every tick of a periodic clock,
// starts the most urgent pending task.
//
// The package has two components:
//
//   - Task wraps an Operation (a function returning an *async.Future) with a
//     Priority and exposes a completion future mirroring the operation's outcome.
//   - Scheduler holds one pending stack per tier (high, mid, low), the set of
//     running tasks and the tick registration obtained from a clock.Clock.
//
// # Dispatch rules
//
//  1. Nothing runs before Start. After Start the first tick fires one full
//     processing interval later.
//  2. Each tick promotes at most one task, and only while fewer than the
//     maximum number of tasks are running.
//  3. High is served before mid, mid before low, re-evaluated on every tick.
//  4. Within a tier the most recently enqueued task is served first.
//  5. A task leaves the running set as soon as its operation settles, on
//     success and failure alike.
//
// Dispatched tasks cannot be cancelled. Clear discards pending tasks of one
// tier without settling their completions.
//
// # Usage
//
//	s, err := priorityqueue.New(
//	    priorityqueue.WithMaxParallel(6),
//	    priorityqueue.WithProcessingFrequency(30*time.Millisecond),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := s.Start(); err != nil {
//	    return err
//	}
//	defer s.Stop()
//
//	task := priorityqueue.NewTask(
//	    priorityqueue.FromFunc(ctx, fetchProfile),
//	    priorityqueue.WithPriority(priorityqueue.PriorityHigh),
//	)
//	task.Completion().Then(render, showError)
//
//	if err := s.Enqueue(task); err != nil {
//	    return err
//	}
//
// Schedulers can also be built from environment variables with Config and
// NewFromConfig, and run under an errgroup with Run.
//
// # Error Handling
//
// Enqueue returns an error wrapping ErrInvalidPriority for tiers other than
// low, mid and high, and logs the rejection. Operation failures are not
// scheduler errors: they surface only through the task's completion, with the
// exact error the operation produced. Start on a started scheduler returns
// ErrAlreadyStarted; Stop on a stopped one does nothing.
//
// # Observability
//
// WithDebug traces enqueue, dispatch and cleanup events at debug level on the
// configured *slog.Logger. WithMetrics registers prometheus gauges and counters
// for pending and running tasks, dispatches, completions, clears and rejections.
package priorityqueue
