package async

// Deferred pairs a pending Future with the capability to settle it.
// Producers keep the Deferred and hand out Future() to consumers.
type Deferred[U any] struct {
	future *Future[U]
}

// Defer creates a Deferred with a pending future.
func Defer[U any]() *Deferred[U] {
	return &Deferred[U]{future: newFuture[U]()}
}

// Future returns the future controlled by d.
func (d *Deferred[U]) Future() *Future[U] {
	return d.future
}

// Resolve settles the future with result.
// It reports false if the future was already settled.
func (d *Deferred[U]) Resolve(result U) bool {
	return d.future.settle(result, nil)
}

// Reject fails the future with err.
// A nil err is replaced with ErrNilRejection so the failure stays observable.
// It reports false if the future was already settled.
func (d *Deferred[U]) Reject(err error) bool {
	if err == nil {
		err = ErrNilRejection
	}
	var zero U
	return d.future.settle(zero, err)
}
