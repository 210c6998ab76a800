package priorityqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/asyncpq/pkg/async"
	"github.com/dmitrymomot/asyncpq/pkg/clock"
	"github.com/dmitrymomot/asyncpq/pkg/logger"
)

// Scheduler dispatches queued jobs in priority order under a parallelism limit.
//
// Pending jobs wait in one stack per priority tier. On every tick at most one
// job is promoted to the running set, taken from the highest non-empty tier,
// most recently enqueued first. A job leaves the running set when its
// execution handle settles, successfully or not.
type Scheduler struct {
	mu       sync.Mutex
	tiers    [priorityCount][]Job
	pending  map[uuid.UUID]struct{}
	running  map[uuid.UUID]Job
	stopTick func()
	logCtx   atomic.Pointer[context.Context]

	name        string
	maxParallel int
	interval    time.Duration
	debug       bool
	clock       clock.Clock
	logger      *slog.Logger
	metrics     *metrics
}

// Stats is a point-in-time snapshot of the scheduler's queues.
type Stats struct {
	High    int
	Mid     int
	Low     int
	Running int
}

// Pending returns the total number of queued jobs across all tiers.
func (s Stats) Pending() int {
	return s.High + s.Mid + s.Low
}

// New creates a scheduler. Without options it allows 6 parallel jobs and
// ticks every 30ms on the real clock.
func New(opts ...Option) (*Scheduler, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.maxParallel < 1 {
		return nil, fmt.Errorf("%w: max parallel must be positive, got %d", ErrInvalidConfig, options.maxParallel)
	}
	if options.processingFrequency <= 0 {
		return nil, fmt.Errorf("%w: processing frequency must be positive, got %s", ErrInvalidConfig, options.processingFrequency)
	}

	s := &Scheduler{
		pending:     make(map[uuid.UUID]struct{}),
		running:     make(map[uuid.UUID]Job),
		name:        options.name,
		maxParallel: options.maxParallel,
		interval:    options.processingFrequency,
		debug:       options.debug,
		clock:       options.clock,
		logger: slog.New(logger.NewContextHandler(options.logger.Handler())).
			With(logger.Component("priorityqueue"), logger.Queue(options.name)),
	}

	if options.registerer != nil {
		m, err := newMetrics(options.registerer, options.name)
		if err != nil {
			return nil, err
		}
		s.metrics = m
	}

	s.trace(context.Background(), "instantiating scheduler",
		slog.Int("max_parallel", s.maxParallel),
		slog.Duration("processing_frequency", s.interval))

	return s, nil
}

// Start arms the periodic dispatch tick.
// It returns ErrAlreadyStarted and keeps the existing tick if already started.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopTick != nil {
		s.logger.WarnContext(s.logContext(), "start called on a running scheduler, keeping existing tick")
		return ErrAlreadyStarted
	}

	s.stopTick = s.clock.Every(s.interval, s.ProcessQueue)
	s.trace(s.logContext(), "scheduler started")
	return nil
}

// Stop disarms the dispatch tick. Running jobs are left to finish on their own.
// Calling Stop on a scheduler that is not started does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop := s.stopTick
	s.stopTick = nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	stop()
	s.trace(s.logContext(), "scheduler stopped")
}

// Started reports whether the dispatch tick is armed.
func (s *Scheduler) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopTick != nil
}

// Run starts the scheduler and returns a function suitable for errgroup.
// The function blocks until ctx is done, then stops the scheduler.
// Scheduler logs are written with ctx, so attributes stored in it with
// logger.ContextWithAttrs appear on every record.
func (s *Scheduler) Run(ctx context.Context) func() error {
	return func() error {
		s.logCtx.Store(&ctx)
		if err := s.Start(); err != nil {
			return err
		}

		<-ctx.Done()
		s.Stop()

		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	}
}

// Enqueue adds job on top of the stack for its priority tier.
// Jobs with an unrecognized priority are not queued: the rejection is logged
// and returned as an error wrapping ErrInvalidPriority. The job's completion
// is left untouched in that case.
func (s *Scheduler) Enqueue(job Job) error {
	if job == nil {
		s.metrics.reject()
		return ErrNilJob
	}

	p := job.Priority()
	if !p.Valid() {
		s.metrics.reject()
		err := fmt.Errorf("%w: %s", ErrInvalidPriority, p)
		s.logger.ErrorContext(s.logContext(), "rejected task with invalid priority",
			logger.TaskID(job.ID()),
			slog.String("priority", p.String()),
			logger.Error(err))
		return err
	}

	s.mu.Lock()
	id := job.ID()
	if _, ok := s.pending[id]; ok {
		s.mu.Unlock()
		s.metrics.reject()
		return fmt.Errorf("%w: %s", ErrDuplicateJob, id)
	}
	if _, ok := s.running[id]; ok {
		s.mu.Unlock()
		s.metrics.reject()
		return fmt.Errorf("%w: %s", ErrDuplicateJob, id)
	}

	s.tiers[p] = append(s.tiers[p], job)
	s.pending[id] = struct{}{}
	depth := len(s.tiers[p])
	s.metrics.setPending(p, depth)
	s.mu.Unlock()

	s.trace(s.logContext(), "enqueued task",
		logger.TaskID(id),
		slog.String("priority", p.String()),
		slog.Int("tier_depth", depth))

	return nil
}

// Clear discards every pending job of tier p without executing it or settling
// its completion, and returns how many were discarded. Running jobs are not affected.
func (s *Scheduler) Clear(p Priority) (int, error) {
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPriority, p)
	}

	s.mu.Lock()
	discarded := s.tiers[p]
	s.tiers[p] = nil
	for _, job := range discarded {
		delete(s.pending, job.ID())
	}
	s.metrics.setPending(p, 0)
	s.mu.Unlock()

	s.metrics.clear(p, len(discarded))
	s.trace(s.logContext(), "cleared tier",
		slog.String("priority", p.String()),
		slog.Int("discarded", len(discarded)))

	return len(discarded), nil
}

// ProcessQueue performs one dispatch tick: if fewer than the maximum number of
// jobs are running, the next job is promoted to the running set and executed.
// It is called by the clock after Start, and may be called directly by hosts
// that drive ticks themselves.
//
// A tick is skipped once maxParallel jobs are running, so the running set
// never exceeds maxParallel. Earlier versions of this queue compared with
// "at most" and let maxParallel+1 jobs run at once.
func (s *Scheduler) ProcessQueue() {
	s.mu.Lock()
	running := len(s.running)
	if running >= s.maxParallel {
		s.mu.Unlock()
		s.trace(s.logContext(), "all slots busy, skipping tick", slog.Int("running", running))
		return
	}

	job, p, depth := s.next()
	if job == nil {
		s.mu.Unlock()
		return
	}
	id := job.ID()
	delete(s.pending, id)
	s.running[id] = job
	running = len(s.running)
	s.metrics.setPending(p, depth)
	s.metrics.setRunning(running)
	s.mu.Unlock()

	s.metrics.dispatch(p)

	ctx := logger.ContextWithAttrs(s.logContext(),
		logger.TaskID(id),
		slog.String("priority", p.String()))
	s.trace(ctx, "executing task", slog.Int("running", running))

	// Execute runs outside the lock: a handle that settles synchronously
	// re-enters the scheduler through release.
	handle, err := execute(job)
	if err != nil {
		s.logger.ErrorContext(ctx, "task execution failed to start", logger.Error(err))
		s.release(ctx, job, true)
		return
	}

	handle.Finally(func() {
		s.release(ctx, job, handle.Err() != nil)
	})
}

// next pops the top of the most urgent non-empty tier. Caller holds s.mu.
func (s *Scheduler) next() (Job, Priority, int) {
	for _, p := range dispatchOrder {
		tier := s.tiers[p]
		if len(tier) == 0 {
			continue
		}
		last := len(tier) - 1
		job := tier[last]
		tier[last] = nil
		s.tiers[p] = tier[:last]
		return job, p, last
	}
	return nil, 0, 0
}

// release removes job from the running set, freeing its slot for the next tick.
func (s *Scheduler) release(ctx context.Context, job Job, failed bool) {
	s.mu.Lock()
	delete(s.running, job.ID())
	running := len(s.running)
	s.metrics.setRunning(running)
	s.mu.Unlock()

	s.metrics.complete(failed)
	s.trace(ctx, "removing settled task from the running set",
		slog.Bool("failed", failed),
		slog.Int("running", running))
}

// execute starts job, converting a panic or a nil handle into an error.
func execute(job Job) (handle async.Awaitable, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()

	handle = job.Execute()
	if handle == nil {
		return nil, ErrNilFuture
	}
	return handle, nil
}

// Stats returns the current queue depths and running count.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		High:    len(s.tiers[PriorityHigh]),
		Mid:     len(s.tiers[PriorityMid]),
		Low:     len(s.tiers[PriorityLow]),
		Running: len(s.running),
	}
}

// Pending returns the number of jobs waiting in tier p.
func (s *Scheduler) Pending(p Priority) int {
	if !p.Valid() {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tiers[p])
}

// IsRunning reports whether the job with the given id has been dispatched and
// has not completed yet.
func (s *Scheduler) IsRunning(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[id]
	return ok
}

// logContext returns the context captured by Run, or context.Background.
func (s *Scheduler) logContext() context.Context {
	if ctx := s.logCtx.Load(); ctx != nil {
		return *ctx
	}
	return context.Background()
}

// trace logs scheduler lifecycle events when debug tracing is enabled.
func (s *Scheduler) trace(ctx context.Context, msg string, attrs ...slog.Attr) {
	if !s.debug {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}
