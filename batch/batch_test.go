package batch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/batch"
	"github.com/fwojciec/seomate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)

func docs(n int) []*seomate.Document {
	out := make([]*seomate.Document, n)
	for i := range out {
		out[i] = &seomate.Document{ID: fmt.Sprintf("doc-%d", i), Title: "Post"}
	}
	return out
}

func operation(name string, process func(ctx context.Context, doc *seomate.Document) error) *mock.Operation {
	return &mock.Operation{
		NameFn:     func() string { return name },
		CompleteFn: func(context.Context, *seomate.Document) (bool, error) { return false, nil },
		ProcessFn:  process,
	}
}

// optionStore is an in-memory option store.
func optionStore(values map[string]string) *mock.OptionService {
	return &mock.OptionService{
		OptionFn: func(_ context.Context, key, def string) (string, error) {
			if v, ok := values[key]; ok {
				return v, nil
			}
			return def, nil
		},
		SetOptionFn: func(_ context.Context, key, value string) error {
			values[key] = value
			return nil
		},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDeadline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, start.Add(50*time.Second), batch.Deadline(start, time.Minute, 10*time.Second))
	assert.Equal(t, start.Add(5*time.Second), batch.Deadline(start, 10*time.Second, 10*time.Second))
	assert.Equal(t, start.Add(time.Minute), batch.Deadline(start, time.Minute, 0))
}

func TestOrchestrator_RunBatch(t *testing.T) {
	t.Parallel()

	t.Run("counts success, errors and skips", func(t *testing.T) {
		t.Parallel()

		op := &mock.Operation{
			NameFn: func() string { return seomate.OperationExcerpt },
			CompleteFn: func(_ context.Context, doc *seomate.Document) (bool, error) {
				return doc.ID == "doc-0", nil
			},
			ProcessFn: func(_ context.Context, doc *seomate.Document) error {
				switch doc.ID {
				case "doc-1":
					return seomate.Errorf(seomate.ETOOSHORT, "content too short")
				case "doc-2":
					return errors.New("write failed")
				}
				return nil
			},
		}
		o := batch.NewOrchestrator(nil, nil, nil, batch.NewRegistry())
		o.Now = fixedClock(start)

		state := o.RunBatch(context.Background(), docs(5), op, time.Minute)

		assert.Equal(t, seomate.BatchRunState{
			Operation: seomate.OperationExcerpt,
			Total:     5,
			Processed: 3,
			Success:   2,
			Error:     1,
			Skipped:   2,
			StartedAt: start,
			Deadline:  start.Add(50 * time.Second),
		}, *state)
	})

	t.Run("never starts a document at or after the deadline", func(t *testing.T) {
		t.Parallel()

		now := start
		var processed []string
		op := operation(seomate.OperationTags, func(_ context.Context, doc *seomate.Document) error {
			processed = append(processed, doc.ID)
			now = now.Add(6 * time.Second)
			return nil
		})
		o := batch.NewOrchestrator(nil, nil, nil, batch.NewRegistry())
		o.Now = func() time.Time { return now }

		state := o.RunBatch(context.Background(), docs(10), op, 30*time.Second)

		assert.True(t, state.DeadlineReached)
		assert.Equal(t, []string{"doc-0", "doc-1", "doc-2", "doc-3"}, processed)
		assert.Equal(t, 4, state.Processed)
		assert.LessOrEqual(t, state.Processed, state.Total)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		op := operation(seomate.OperationSEO, func(context.Context, *seomate.Document) error {
			cancel()
			return nil
		})
		o := batch.NewOrchestrator(nil, nil, nil, batch.NewRegistry())

		state := o.RunBatch(ctx, docs(3), op, time.Minute)

		assert.Equal(t, 1, state.Processed)
		assert.False(t, state.DeadlineReached)
	})

	t.Run("counts completion check failures as errors", func(t *testing.T) {
		t.Parallel()

		op := &mock.Operation{
			NameFn: func() string { return seomate.OperationSEO },
			CompleteFn: func(context.Context, *seomate.Document) (bool, error) {
				return false, errors.New("flag lookup failed")
			},
		}
		o := batch.NewOrchestrator(nil, nil, nil, batch.NewRegistry())

		state := o.RunBatch(context.Background(), docs(2), op, time.Minute)

		assert.Equal(t, 2, state.Error)
		assert.Zero(t, state.Success)
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		var events []batch.ProgressType
		o := batch.NewOrchestrator(nil, nil, nil, batch.NewRegistry())
		o.Progress = func(e batch.ProgressEvent) { events = append(events, e.Type) }

		o.RunBatch(context.Background(), docs(1), operation("x", func(context.Context, *seomate.Document) error { return nil }), time.Minute)

		assert.Equal(t, []batch.ProgressType{batch.ProgressStarted, batch.ProgressCompleted, batch.ProgressFinished}, events)
	})
}

func TestOrchestrator_Run(t *testing.T) {
	t.Parallel()

	candidates := func(n int) *mock.DocumentService {
		return &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, filter seomate.DocumentFilter) ([]*seomate.Document, error) {
				if filter.SortBy != seomate.SortOldestFirst {
					return nil, errors.New("candidates must be oldest first")
				}
				return docs(n), nil
			},
		}
	}

	t.Run("disables the job after three failed scheduled runs", func(t *testing.T) {
		t.Parallel()

		values := map[string]string{}
		var unscheduled []string
		scheduler := &mock.Scheduler{
			UnscheduleFn: func(_ context.Context, name string) error {
				unscheduled = append(unscheduled, name)
				return nil
			},
		}
		failing := true
		op := operation(seomate.OperationExcerpt, func(context.Context, *seomate.Document) error {
			if failing {
				return errors.New("ai down")
			}
			return nil
		})
		o := batch.NewOrchestrator(candidates(2), optionStore(values), scheduler, batch.NewRegistry(op))
		key := batch.FailureKey(seomate.OperationExcerpt)

		for run := 1; run <= 2; run++ {
			state, err := o.Run(context.Background(), seomate.OperationExcerpt, time.Minute, true)
			require.NoError(t, err)
			assert.Zero(t, state.Success)
			assert.Equal(t, fmt.Sprint(run), values[key])
			assert.Empty(t, unscheduled)
		}

		_, err := o.Run(context.Background(), seomate.OperationExcerpt, time.Minute, true)
		require.NoError(t, err)
		assert.Equal(t, "3", values[key])
		assert.Equal(t, []string{seomate.OperationExcerpt}, unscheduled)

		failing = false
		state, err := o.Run(context.Background(), seomate.OperationExcerpt, time.Minute, true)
		require.NoError(t, err)
		assert.Equal(t, 2, state.Success)
		assert.Equal(t, "0", values[key])
	})

	t.Run("interactive runs leave the counter alone", func(t *testing.T) {
		t.Parallel()

		values := map[string]string{}
		op := operation(seomate.OperationTags, func(context.Context, *seomate.Document) error {
			return errors.New("boom")
		})
		o := batch.NewOrchestrator(candidates(1), optionStore(values), &mock.Scheduler{}, batch.NewRegistry(op))

		state, err := o.Run(context.Background(), seomate.OperationTags, time.Minute, false)

		require.NoError(t, err)
		assert.Equal(t, 1, state.Error)
		assert.Empty(t, values)
	})

	t.Run("runs that process nothing leave the counter alone", func(t *testing.T) {
		t.Parallel()

		values := map[string]string{batch.FailureKey(seomate.OperationSEO): "2"}
		op := &mock.Operation{
			NameFn:     func() string { return seomate.OperationSEO },
			CompleteFn: func(context.Context, *seomate.Document) (bool, error) { return true, nil },
		}
		o := batch.NewOrchestrator(candidates(3), optionStore(values), &mock.Scheduler{}, batch.NewRegistry(op))

		state, err := o.Run(context.Background(), seomate.OperationSEO, time.Minute, true)

		require.NoError(t, err)
		assert.Equal(t, 3, state.Skipped)
		assert.Equal(t, "2", values[batch.FailureKey(seomate.OperationSEO)])
	})

	t.Run("rejects unknown operations and budgets", func(t *testing.T) {
		t.Parallel()

		o := batch.NewOrchestrator(candidates(0), nil, nil, batch.NewRegistry(operation(seomate.OperationSEO, nil)))

		_, err := o.Run(context.Background(), "translate", time.Minute, false)
		assert.Equal(t, seomate.EINVALID, seomate.ErrorCode(err))

		_, err = o.Run(context.Background(), seomate.OperationSEO, 0, false)
		assert.Equal(t, seomate.EINVALID, seomate.ErrorCode(err))
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := batch.NewRegistry(operation(seomate.OperationTags, nil), operation(seomate.OperationExcerpt, nil))

	assert.Equal(t, []string{seomate.OperationExcerpt, seomate.OperationTags}, r.List())
	assert.NotNil(t, r.Get(seomate.OperationTags))
	assert.Nil(t, r.Get(seomate.OperationSEO))
}

func TestRunner_RunDue(t *testing.T) {
	t.Parallel()

	var marked, ran []string
	scheduler := &mock.Scheduler{
		FindSchedulesFn: func(context.Context) ([]*seomate.Schedule, error) {
			return []*seomate.Schedule{
				{Name: seomate.OperationExcerpt, Interval: time.Hour, NextRunAt: start.Add(-time.Minute)},
				{Name: seomate.OperationTags, Interval: time.Hour, NextRunAt: start.Add(time.Minute)},
			}, nil
		},
		MarkRunFn: func(_ context.Context, name string, at time.Time) error {
			assert.Equal(t, start, at)
			marked = append(marked, name)
			return nil
		},
	}
	docSvc := &mock.DocumentService{
		FindDocumentsFn: func(context.Context, seomate.DocumentFilter) ([]*seomate.Document, error) {
			return docs(1), nil
		},
	}
	op := func(name string) *mock.Operation {
		return operation(name, func(context.Context, *seomate.Document) error {
			ran = append(ran, name)
			return nil
		})
	}
	o := batch.NewOrchestrator(docSvc, optionStore(map[string]string{}), scheduler,
		batch.NewRegistry(op(seomate.OperationExcerpt), op(seomate.OperationTags)))
	o.Now = fixedClock(start)

	r := &batch.Runner{Scheduler: scheduler, Orchestrator: o, Budget: time.Minute, Now: fixedClock(start)}

	require.NoError(t, r.RunDue(context.Background()))
	assert.Equal(t, []string{seomate.OperationExcerpt}, marked)
	assert.Equal(t, []string{seomate.OperationExcerpt}, ran)
}
