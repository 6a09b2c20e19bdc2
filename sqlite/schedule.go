package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/seomate"
)

var _ seomate.Scheduler = (*Scheduler)(nil)

// Scheduler implements seomate.Scheduler using SQLite.
type Scheduler struct {
	db *DB

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(db *DB) *Scheduler {
	return &Scheduler{db: db, Now: time.Now}
}

// ScheduleRecurring registers name to run every interval, first one interval
// from now. Re-registering keeps the last run time.
func (s *Scheduler) ScheduleRecurring(ctx context.Context, name string, interval time.Duration) error {
	if name == "" {
		return seomate.Errorf(seomate.EINVALID, "schedule name required")
	}
	if interval <= 0 {
		return seomate.Errorf(seomate.EINVALID, "schedule interval must be positive")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules (name, interval_ns, next_run_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			interval_ns = excluded.interval_ns,
			next_run_at = excluded.next_run_at
	`, name, int64(interval), formatTime(s.now().Add(interval)))
	return err
}

// Unschedule removes name. Unknown names are ignored.
func (s *Scheduler) Unschedule(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE name = ?", name)
	return err
}

// FindSchedules lists schedules ordered by name.
func (s *Scheduler) FindSchedules(ctx context.Context) ([]*seomate.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, interval_ns, next_run_at, last_run_at FROM schedules ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*seomate.Schedule
	for rows.Next() {
		var (
			sch       seomate.Schedule
			interval  int64
			nextRunAt string
			lastRunAt sql.NullString
		)
		if err := rows.Scan(&sch.Name, &interval, &nextRunAt, &lastRunAt); err != nil {
			return nil, err
		}
		sch.Interval = time.Duration(interval)
		if sch.NextRunAt, err = parseTime(nextRunAt, "next_run_at"); err != nil {
			return nil, err
		}
		if sch.LastRunAt, err = parseNullTime(lastRunAt, "last_run_at"); err != nil {
			return nil, err
		}
		schedules = append(schedules, &sch)
	}
	return schedules, rows.Err()
}

// MarkRun records a run of name at at and moves the next run one interval
// later. Returns ENOTFOUND if name is not scheduled.
func (s *Scheduler) MarkRun(ctx context.Context, name string, at time.Time) error {
	var interval int64
	err := s.db.QueryRowContext(ctx, "SELECT interval_ns FROM schedules WHERE name = ?", name).Scan(&interval)
	if errors.Is(err, sql.ErrNoRows) {
		return seomate.Errorf(seomate.ENOTFOUND, "schedule %q not found", name)
	}
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE schedules SET last_run_at = ?, next_run_at = ? WHERE name = ?
	`, formatTime(at), formatTime(at.Add(time.Duration(interval))), name)
	return err
}

func (s *Scheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
