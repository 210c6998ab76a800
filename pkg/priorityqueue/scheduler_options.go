package priorityqueue

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/asyncpq/pkg/clock"
)

const (
	// DefaultMaxParallel is the default number of tasks allowed to run at once
	DefaultMaxParallel = 6

	// DefaultProcessingFrequency is the default interval between dispatch ticks
	DefaultProcessingFrequency = 30 * time.Millisecond

	// DefaultName labels logs and metrics of schedulers created without WithName
	DefaultName = "default"
)

// Option is a functional option for configuring a scheduler
type Option func(*schedulerOptions)

type schedulerOptions struct {
	name                string
	maxParallel         int
	processingFrequency time.Duration
	debug               bool
	clock               clock.Clock
	logger              *slog.Logger
	registerer          prometheus.Registerer
}

func defaultOptions() *schedulerOptions {
	return &schedulerOptions{
		name:                DefaultName,
		maxParallel:         DefaultMaxParallel,
		processingFrequency: DefaultProcessingFrequency,
		clock:               clock.Real{},
		logger:              slog.Default(),
	}
}

// WithName sets the scheduler name used in logs and as the "queue" metrics label
func WithName(name string) Option {
	return func(o *schedulerOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithMaxParallel sets how many dispatched tasks may be running at once.
// Values below 1 make New fail with ErrInvalidConfig.
func WithMaxParallel(n int) Option {
	return func(o *schedulerOptions) {
		o.maxParallel = n
	}
}

// WithProcessingFrequency sets the interval between dispatch ticks.
// Non-positive values make New fail with ErrInvalidConfig.
func WithProcessingFrequency(d time.Duration) Option {
	return func(o *schedulerOptions) {
		o.processingFrequency = d
	}
}

// WithDebug enables tracing of enqueue, dispatch and cleanup events at debug level
func WithDebug(debug bool) Option {
	return func(o *schedulerOptions) {
		o.debug = debug
	}
}

// WithClock sets the clock driving the dispatch tick
func WithClock(c clock.Clock) Option {
	return func(o *schedulerOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger for the scheduler
func WithLogger(logger *slog.Logger) Option {
	return func(o *schedulerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics registers the scheduler's collectors with reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *schedulerOptions) {
		o.registerer = reg
	}
}
