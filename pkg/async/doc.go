// Package async provides generic single-resolution futures and helpers for
// running computations asynchronously and waiting for their completion.
//
// A Future settles exactly once, either with a result or with an error. Futures
// are produced in three ways:
//
//   - Async starts the supplied function in its own goroutine and settles the
//     returned Future with its outcome.
//   - Defer returns a Deferred: a pending Future together with Resolve and
//     Reject, for producers that settle the future themselves.
//   - Resolved and Rejected return futures that are already settled.
//
// Consumers either block with Await, AwaitWithTimeout or the Done channel, or
// attach observers with Then and Finally. Observers attached before settlement
// fire exactly once on the settling goroutine; observers attached afterwards
// fire immediately.
//
// WaitAll and WaitAny coordinate multiple futures, either collecting every
// result or returning the first one to finish.
//
// Awaitable is the type-agnostic view of a Future, used by code that tracks
// futures of different result types side by side.
//
// # Usage
//
//	d := async.Defer[string]()
//	d.Future().Then(
//	    func(v string) { fmt.Println("done:", v) },
//	    func(err error) { fmt.Println("failed:", err) },
//	)
//
//	go func() {
//	    d.Resolve("value")
//	}()
//
//	res, err := async.Async(ctx, 42, func(_ context.Context, v int) (string, error) {
//	    return fmt.Sprintf("value is %d", v), nil
//	}).Await()
//
// # Error Handling
//
// Futures carry the error produced by the user callback unchanged. The package
// defines ErrTimeout for AwaitWithTimeout, ErrNoFutures for WaitAny without
// arguments and ErrNilRejection, used when a future is rejected with a nil error.
package async
