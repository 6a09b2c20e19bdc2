package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/batch"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	budget := c.Budget
	if budget == 0 {
		budget = deps.Config.Batch.Budget
	}

	state, err := deps.Pipeline.BatchGenerate(deps.Ctx, c.Operation, budget)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	printBatchState(deps.Stdout, state)
	return nil
}

func printBatchState(w io.Writer, s *seomate.BatchRunState) {
	fmt.Fprintf(w, "Batch %s: %d candidates, %d processed (%d ok, %d failed), %d skipped\n",
		s.Operation, s.Total, s.Processed, s.Success, s.Error, s.Skipped)
	if s.DeadlineReached {
		remaining := s.Total - s.Processed - s.Skipped
		fmt.Fprintf(w, "Stopped at the time budget; %d documents left for the next run.\n", remaining)
	}
}

// batchProgress prints one line per finished document.
func batchProgress(w io.Writer) batch.ProgressFunc {
	return func(ev batch.ProgressEvent) {
		switch ev.Type {
		case batch.ProgressCompleted:
			fmt.Fprintf(w, "  [%d/%d] %s\n", ev.Completed, ev.Total, ev.DocumentID)
		case batch.ProgressFailed:
			fmt.Fprintf(w, "  [%d/%d] %s failed: %s\n", ev.Completed, ev.Total, ev.DocumentID, seomate.ErrorMessage(ev.Error))
		}
	}
}

// Run executes the schedule enable command. Enabling resets the job's
// consecutive failure counter.
func (c *ScheduleEnableCmd) Run(deps *Dependencies) error {
	interval := c.Interval
	if interval == 0 {
		interval = deps.Config.Batch.Interval
	}

	if err := deps.Scheduler.ScheduleRecurring(deps.Ctx, c.Operation, interval); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}
	if err := deps.Options.SetOption(deps.Ctx, batch.FailureKey(c.Operation), "0"); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scheduled %s every %s\n", c.Operation, interval)
	return nil
}

// Run executes the schedule disable command.
func (c *ScheduleDisableCmd) Run(deps *Dependencies) error {
	if err := deps.Scheduler.Unschedule(deps.Ctx, c.Operation); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Unscheduled %s\n", c.Operation)
	return nil
}

// Run executes the schedule list command.
func (c *ScheduleListCmd) Run(deps *Dependencies) error {
	schedules, err := deps.Scheduler.FindSchedules(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	if len(schedules) == 0 {
		fmt.Fprintln(deps.Stdout, "No scheduled jobs. Use 'seomate schedule enable' to add one.")
		return nil
	}

	for _, s := range schedules {
		failures, err := deps.Options.Option(deps.Ctx, batch.FailureKey(s.Name), "0")
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
			return err
		}
		if _, err := strconv.Atoi(failures); err != nil {
			failures = "0"
		}

		last := "never"
		if s.LastRunAt != nil {
			last = s.LastRunAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(deps.Stdout, "%-8s every %-8s next %s  last %s  failures %s\n",
			s.Name, s.Interval, s.NextRunAt.Local().Format(time.DateTime), last, failures)
	}
	return nil
}

// Run executes the daemon command. It returns when the context is canceled.
func (c *DaemonCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Running scheduled jobs every %s (Ctrl-C to stop)\n", deps.Runner.Tick)
	if err := deps.Runner.Run(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}
	return nil
}
