package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/asyncpq/pkg/async"
	"github.com/dmitrymomot/asyncpq/pkg/config"
	"github.com/dmitrymomot/asyncpq/pkg/logger"
	"github.com/dmitrymomot/asyncpq/pkg/priorityqueue"
)

type demoConfig struct {
	Calls int `env:"DEMO_CALLS" envDefault:"20"`
	// Calls get a random priority between MinPriority and high.
	MinPriority priorityqueue.Priority `env:"DEMO_MIN_PRIORITY" envDefault:"low"`
}

// Simulates a burst of slow calls throttled by the scheduler.
// Settings come from DEMO_*, PRIORITY_QUEUE_* and LOG_* environment variables.
func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	var queueCfg priorityqueue.Config
	config.MustLoad(&queueCfg)
	var demoCfg demoConfig
	config.MustLoad(&demoCfg)

	l := logger.NewFromConfig(logCfg, logger.WithAttr(logger.Component("throttle-demo")))
	logger.SetAsDefault(l)

	s, err := priorityqueue.NewFromConfig(queueCfg,
		priorityqueue.WithLogger(l),
		priorityqueue.WithMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ContextWithAttrs(ctx, slog.Int64("run", time.Now().Unix()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Run(gctx))

	span := int(priorityqueue.PriorityHigh-demoCfg.MinPriority) + 1
	futures := make([]*async.Future[time.Duration], 0, demoCfg.Calls)
	for i := range demoCfg.Calls {
		p := demoCfg.MinPriority + priorityqueue.Priority(rand.IntN(span))
		callCtx := logger.ContextWithAttrs(gctx, slog.Int("call", i), slog.String("priority", p.String()))

		task := priorityqueue.NewTask(priorityqueue.FromFunc(callCtx, func(ctx context.Context) (time.Duration, error) {
			latency := time.Duration(20+rand.IntN(80)) * time.Millisecond
			l.DebugContext(ctx, "calling upstream", logger.Duration(latency))
			select {
			case <-time.After(latency):
				return latency, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}), priorityqueue.WithPriority(p))

		task.Completion().Then(
			func(d time.Duration) { l.InfoContext(callCtx, "call finished", logger.Duration(d)) },
			func(err error) { l.WarnContext(callCtx, "call failed", logger.Error(err)) },
		)

		if err := s.Enqueue(task); err != nil {
			log.Fatalf("Failed to enqueue call %d: %v", i, err)
		}
		futures = append(futures, task.Completion())
	}

	g.Go(func() error {
		defer stop()

		all := async.Async(gctx, futures, func(_ context.Context, fs []*async.Future[time.Duration]) ([]time.Duration, error) {
			return async.WaitAll(fs...)
		})

		select {
		case <-gctx.Done():
			// Interrupted: pending calls are abandoned with the scheduler.
			return nil
		case <-all.Done():
		}

		if err := all.Err(); err != nil {
			return err
		}
		stats := s.Stats()
		fmt.Printf("all %d calls finished, running=%d pending=%d\n", demoCfg.Calls, stats.Running, stats.Pending())
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Demo failed: %v", err)
	}
}
