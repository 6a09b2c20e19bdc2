package main_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/batch"
	main "github.com/fwojciec/seomate/cmd/seomate"
	"github.com/fwojciec/seomate/config"
	"github.com/fwojciec/seomate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("uses the configured budget by default", func(t *testing.T) {
		t.Parallel()

		var gotBudget time.Duration
		deps, stdout, _ := newDeps(&pipeline{
			BatchGenerateFn: func(_ context.Context, op string, budget time.Duration) (*seomate.BatchRunState, error) {
				assert.Equal(t, seomate.OperationExcerpt, op)
				gotBudget = budget
				return &seomate.BatchRunState{Operation: op, Total: 5, Processed: 3, Success: 2, Error: 1, Skipped: 2}, nil
			},
		})
		deps.Config = config.Default()

		err := (&main.BatchCmd{Operation: seomate.OperationExcerpt}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, deps.Config.Batch.Budget, gotBudget)
		assert.Contains(t, stdout.String(), "Batch excerpt: 5 candidates, 3 processed (2 ok, 1 failed), 2 skipped")
		assert.NotContains(t, stdout.String(), "time budget")
	})

	t.Run("reports documents left after the deadline", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&pipeline{
			BatchGenerateFn: func(_ context.Context, op string, budget time.Duration) (*seomate.BatchRunState, error) {
				assert.Equal(t, 30*time.Second, budget)
				return &seomate.BatchRunState{Operation: op, Total: 10, Processed: 4, Success: 4, DeadlineReached: true}, nil
			},
		})

		err := (&main.BatchCmd{Operation: seomate.OperationSEO, Budget: 30 * time.Second}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "6 documents left for the next run")
	})

	t.Run("prints errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(&pipeline{
			BatchGenerateFn: func(context.Context, string, time.Duration) (*seomate.BatchRunState, error) {
				return nil, seomate.Errorf(seomate.EUNAVAILABLE, "AI engine not configured")
			},
		})

		err := (&main.BatchCmd{Operation: seomate.OperationTags, Budget: time.Minute}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "AI engine not configured")
	})
}

func TestScheduleCmds_Run(t *testing.T) {
	t.Parallel()

	t.Run("enable schedules and resets the failure counter", func(t *testing.T) {
		t.Parallel()

		var scheduled string
		var interval time.Duration
		options := map[string]string{batch.FailureKey("tags"): "3"}

		deps, stdout, _ := newDeps(nil)
		deps.Config = config.Default()
		deps.Scheduler = &mock.Scheduler{ScheduleRecurringFn: func(_ context.Context, name string, d time.Duration) error {
			scheduled, interval = name, d
			return nil
		}}
		deps.Options = &mock.OptionService{SetOptionFn: func(_ context.Context, key, value string) error {
			options[key] = value
			return nil
		}}

		err := (&main.ScheduleEnableCmd{Operation: "tags"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "tags", scheduled)
		assert.Equal(t, 24*time.Hour, interval)
		assert.Equal(t, "0", options[batch.FailureKey("tags")])
		assert.Contains(t, stdout.String(), "Scheduled tags every 24h0m0s")
	})

	t.Run("disable unschedules", func(t *testing.T) {
		t.Parallel()

		var removed string
		deps, stdout, _ := newDeps(nil)
		deps.Scheduler = &mock.Scheduler{UnscheduleFn: func(_ context.Context, name string) error {
			removed = name
			return nil
		}}

		require.NoError(t, (&main.ScheduleDisableCmd{Operation: "seo"}).Run(deps))
		assert.Equal(t, "seo", removed)
		assert.Contains(t, stdout.String(), "Unscheduled seo")
	})

	t.Run("list shows runs and failure counters", func(t *testing.T) {
		t.Parallel()

		last := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
		deps, stdout, _ := newDeps(nil)
		deps.Scheduler = &mock.Scheduler{FindSchedulesFn: func(context.Context) ([]*seomate.Schedule, error) {
			return []*seomate.Schedule{
				{Name: "excerpt", Interval: time.Hour, NextRunAt: last.Add(time.Hour), LastRunAt: &last},
				{Name: "seo", Interval: 24 * time.Hour, NextRunAt: last},
			}, nil
		}}
		deps.Options = &mock.OptionService{OptionFn: func(_ context.Context, key, def string) (string, error) {
			if key == batch.FailureKey("seo") {
				return "2", nil
			}
			return def, nil
		}}

		err := (&main.ScheduleListCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "excerpt  every 1h0m0s   next 2024-01-01 13:00:00  last 2024-01-01 12:00:00  failures 0")
		assert.Contains(t, out, "last never  failures 2")
	})

	t.Run("list without schedules", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Scheduler = &mock.Scheduler{FindSchedulesFn: func(context.Context) ([]*seomate.Schedule, error) {
			return nil, nil
		}}

		require.NoError(t, (&main.ScheduleListCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No scheduled jobs")
	})

	t.Run("enable reports scheduler errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Config = config.Default()
		deps.Scheduler = &mock.Scheduler{ScheduleRecurringFn: func(context.Context, string, time.Duration) error {
			return errors.New("database is locked")
		}}

		err := (&main.ScheduleEnableCmd{Operation: "tags", Interval: time.Hour}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "database is locked")
	})
}

func TestDaemonCmd_Run(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	scheduler := &mock.Scheduler{FindSchedulesFn: func(context.Context) ([]*seomate.Schedule, error) {
		calls++
		cancel()
		return nil, nil
	}}

	deps, stdout, _ := newDeps(nil)
	deps.Ctx = ctx
	deps.Runner = &batch.Runner{Scheduler: scheduler, Tick: time.Hour}

	err := (&main.DaemonCmd{}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, stdout.String(), "every 1h0m0s")
}
