package priorityqueue

import "time"

// Config holds the configuration for a scheduler
type Config struct {
	Name                string        `env:"PRIORITY_QUEUE_NAME" envDefault:"default"`
	Debug               bool          `env:"PRIORITY_QUEUE_DEBUG" envDefault:"false"`
	MaxParallel         int           `env:"PRIORITY_QUEUE_MAX_PARALLEL" envDefault:"6"`
	ProcessingFrequency time.Duration `env:"PRIORITY_QUEUE_PROCESSING_FREQUENCY" envDefault:"30ms"`
}

// NewFromConfig creates a scheduler from cfg. Options are applied after the
// config values and take precedence.
func NewFromConfig(cfg Config, opts ...Option) (*Scheduler, error) {
	base := []Option{
		WithName(cfg.Name),
		WithDebug(cfg.Debug),
		WithMaxParallel(cfg.MaxParallel),
		WithProcessingFrequency(cfg.ProcessingFrequency),
	}
	return New(append(base, opts...)...)
}
