package clock

import "errors"

// ErrNonPositiveInterval is the panic value for registrations with interval <= 0.
var ErrNonPositiveInterval = errors.New("clock: interval must be positive")
