package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Sweeper removes expired second-factor challenges.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Pruner deletes activity entries older than retention.
type Pruner interface {
	Prune(ctx context.Context, retention time.Duration, now time.Time) (int64, error)
}

// Janitor runs periodic housekeeping on a cron schedule: it sweeps abandoned
// 2FA challenges and, when retention is positive, prunes the activity log.
type Janitor struct {
	sweeper   Sweeper
	pruner    Pruner
	retention time.Duration
	schedule  cron.Schedule
	spec      string
	logger    *slog.Logger
	now       func() time.Time
}

// NewJanitor parses spec (standard cron or a descriptor such as "@every 1m").
func NewJanitor(spec string, sweeper Sweeper, pruner Pruner, retention time.Duration, logger *slog.Logger) (*Janitor, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse janitor schedule %q: %w", spec, err)
	}
	return &Janitor{
		sweeper:   sweeper,
		pruner:    pruner,
		retention: retention,
		schedule:  schedule,
		spec:      spec,
		logger:    logger.With("component", "janitor"),
		now:       time.Now,
	}, nil
}

// Start blocks until ctx is cancelled, then waits for a running pass to finish.
func (j *Janitor) Start(ctx context.Context) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(j.schedule, cron.FuncJob(func() { j.RunOnce(ctx) }))
	c.Start()

	j.logger.Info("janitor started", "schedule", j.spec, "activity_retention", j.retention)

	<-ctx.Done()
	<-c.Stop().Done()
	j.logger.Info("janitor shut down")
}

// RunOnce performs one housekeeping pass. Failures are logged, not returned,
// so one broken task does not starve the other.
func (j *Janitor) RunOnce(ctx context.Context) {
	j.run(ctx, "sweep_challenges", func() error {
		n, err := j.sweeper.Sweep(ctx)
		if err != nil {
			return err
		}
		metrics.ChallengesSweptTotal.Add(float64(n))
		if n > 0 {
			j.logger.InfoContext(ctx, "swept expired challenges", "count", n)
		}
		return nil
	})

	if j.pruner == nil || j.retention <= 0 {
		return
	}
	j.run(ctx, "prune_activity", func() error {
		n, err := j.pruner.Prune(ctx, j.retention, j.now())
		if err != nil {
			return err
		}
		if n > 0 {
			j.logger.InfoContext(ctx, "pruned activity log", "count", n)
		}
		return nil
	})
}

func (j *Janitor) run(ctx context.Context, task string, fn func() error) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	err := fn()
	metrics.JanitorRunDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
	if err != nil {
		j.logger.ErrorContext(ctx, "janitor task failed", "task", task, "error", err)
	}
}
