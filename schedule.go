package seomate

import (
	"context"
	"time"
)

// Schedule is a recurring job registration.
type Schedule struct {
	Name      string        `json:"name"`
	Interval  time.Duration `json:"interval"`
	NextRunAt time.Time     `json:"nextRunAt"`
	LastRunAt *time.Time    `json:"lastRunAt,omitempty"`
}

// Due reports whether the schedule should run at now.
func (s *Schedule) Due(now time.Time) bool {
	return !now.Before(s.NextRunAt)
}

// Scheduler registers recurring jobs.
type Scheduler interface {
	// ScheduleRecurring registers or replaces a recurring job.
	ScheduleRecurring(ctx context.Context, name string, interval time.Duration) error

	// Unschedule removes a recurring job. Removing an unknown job is a no-op.
	Unschedule(ctx context.Context, name string) error

	// FindSchedules lists registered jobs ordered by name.
	FindSchedules(ctx context.Context) ([]*Schedule, error)

	// MarkRun records a run at the given time and advances the next run.
	// Returns ENOTFOUND if the job is not scheduled.
	MarkRun(ctx context.Context, name string, at time.Time) error
}
