package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/seomate"
)

// DefaultTick is how often Runner polls for due schedules.
const DefaultTick = time.Minute

// Runner polls the scheduler and runs due jobs as scheduled batches. Job
// names are operation names.
type Runner struct {
	Scheduler    seomate.Scheduler
	Orchestrator *Orchestrator

	// Budget bounds each scheduled run.
	Budget time.Duration
	Tick   time.Duration

	Now    func() time.Time
	Logger *slog.Logger
}

// Run polls until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	tick := r.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		if err := r.RunDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger().Error("scheduled run failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunDue runs every schedule due now. A job's next run is advanced before
// it starts so a failing job is not retried on every tick.
func (r *Runner) RunDue(ctx context.Context) error {
	schedules, err := r.Scheduler.FindSchedules(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, sch := range schedules {
		now := r.now()
		if !sch.Due(now) {
			continue
		}
		if err := r.Scheduler.MarkRun(ctx, sch.Name, now); err != nil {
			errs = append(errs, err)
			continue
		}

		r.logger().Info("scheduled run starting", "job", sch.Name)
		if _, err := r.Orchestrator.Run(ctx, sch.Name, r.Budget, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
