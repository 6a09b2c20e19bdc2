// Package batch runs generation operations over document sets under a
// wall-clock budget and disables recurring jobs after repeated total failure.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/fwojciec/seomate"
)

// Defaults for Orchestrator.
const (
	DefaultSafetyMargin = 10 * time.Second
	DefaultFailureLimit = 3
)

// FailureKey returns the option key holding the consecutive failure count
// of a scheduled job.
func FailureKey(job string) string {
	return "batch." + job + ".consecutive_failures"
}

// Deadline returns start + budget - margin. The margin is capped at half the
// budget so short budgets still leave time to work.
func Deadline(start time.Time, budget, margin time.Duration) time.Time {
	if margin > budget/2 {
		margin = budget / 2
	}
	return start.Add(budget - margin)
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type       ProgressType
	Completed  int
	Total      int
	DocumentID string
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Orchestrator runs operations over candidate documents.
type Orchestrator struct {
	Documents seomate.DocumentService
	Options   seomate.OptionService
	Scheduler seomate.Scheduler
	Registry  *Registry

	// Filter selects candidates for Run. SortBy is forced to oldest first.
	Filter seomate.DocumentFilter

	SafetyMargin time.Duration
	FailureLimit int

	Progress ProgressFunc
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator with default settings.
func NewOrchestrator(docs seomate.DocumentService, options seomate.OptionService, scheduler seomate.Scheduler, registry *Registry) *Orchestrator {
	return &Orchestrator{
		Documents:    docs,
		Options:      options,
		Scheduler:    scheduler,
		Registry:     registry,
		SafetyMargin: DefaultSafetyMargin,
		FailureLimit: DefaultFailureLimit,
		Now:          time.Now,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run loads candidates oldest first and runs the named operation over them.
// Scheduled runs update the job's consecutive failure counter and may
// unschedule the job.
func (o *Orchestrator) Run(ctx context.Context, operation string, budget time.Duration, scheduled bool) (*seomate.BatchRunState, error) {
	op := o.Registry.Get(operation)
	if op == nil {
		return nil, seomate.Errorf(seomate.EINVALID, "unknown batch operation %q", operation)
	}
	if budget <= 0 {
		return nil, seomate.Errorf(seomate.EINVALID, "batch budget must be positive")
	}

	filter := o.Filter
	filter.SortBy = seomate.SortOldestFirst
	docs, err := o.Documents.FindDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	state := o.RunBatch(ctx, docs, op, budget)

	if scheduled {
		if err := o.recordOutcome(ctx, operation, state); err != nil {
			return state, err
		}
	}
	return state, nil
}

// RunBatch applies op to candidates in order until they are exhausted or the
// deadline passes. Per-document failures are counted and never abort the run.
func (o *Orchestrator) RunBatch(ctx context.Context, candidates []*seomate.Document, op seomate.Operation, budget time.Duration) *seomate.BatchRunState {
	start := o.now()
	state := &seomate.BatchRunState{
		Operation: op.Name(),
		Total:     len(candidates),
		StartedAt: start,
		Deadline:  Deadline(start, budget, o.SafetyMargin),
	}

	o.notify(ProgressEvent{Type: ProgressStarted, Total: state.Total})

	for i, doc := range candidates {
		if !o.now().Before(state.Deadline) {
			state.DeadlineReached = true
			o.logger().Info("batch deadline reached",
				"operation", state.Operation,
				"remaining", len(candidates)-i)
			break
		}
		if ctx.Err() != nil {
			break
		}

		event := ProgressEvent{Completed: i + 1, Total: state.Total, DocumentID: doc.ID}
		switch done, err := o.process(ctx, op, doc); {
		case done:
			state.Skipped++
			event.Type = ProgressSkipped
		case seomate.ErrorCode(err) == seomate.ETOOSHORT:
			state.Skipped++
			event.Type = ProgressSkipped
		case err != nil:
			state.Processed++
			state.Error++
			event.Type = ProgressFailed
			event.Error = err
			o.logger().Warn("batch item failed", "operation", state.Operation, "document", doc.ID, "error", err)
		default:
			state.Processed++
			state.Success++
			event.Type = ProgressCompleted
		}
		o.notify(event)
	}

	o.notify(ProgressEvent{Type: ProgressFinished, Completed: state.Processed + state.Skipped, Total: state.Total})
	o.logger().Info("batch finished",
		"operation", state.Operation,
		"total", state.Total,
		"success", state.Success,
		"error", state.Error,
		"skipped", state.Skipped,
		"deadline_reached", state.DeadlineReached)
	return state
}

// process applies op to doc unless doc already satisfies it.
func (o *Orchestrator) process(ctx context.Context, op seomate.Operation, doc *seomate.Document) (done bool, err error) {
	done, err = op.Complete(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	if done {
		return true, nil
	}
	return false, op.Process(ctx, doc)
}

// recordOutcome updates the consecutive failure counter of a scheduled job.
// Runs that processed nothing leave it unchanged.
func (o *Orchestrator) recordOutcome(ctx context.Context, job string, state *seomate.BatchRunState) error {
	key := FailureKey(job)

	if state.Success > 0 {
		if err := o.Options.SetOption(ctx, key, "0"); err != nil {
			return fmt.Errorf("reset failure counter: %w", err)
		}
		return nil
	}
	if state.Processed == 0 {
		return nil
	}

	current, err := o.Options.Option(ctx, key, "0")
	if err != nil {
		return fmt.Errorf("read failure counter: %w", err)
	}
	n, err := strconv.Atoi(current)
	if err != nil {
		o.logger().Warn("invalid failure counter", "job", job, "value", current)
		n = 0
	}
	n++

	if err := o.Options.SetOption(ctx, key, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("store failure counter: %w", err)
	}

	if n >= o.failureLimit() {
		if err := o.Scheduler.Unschedule(ctx, job); err != nil {
			return fmt.Errorf("unschedule %s: %w", job, err)
		}
		o.logger().Warn("batch job disabled after consecutive failures", "job", job, "failures", n)
	}
	return nil
}

func (o *Orchestrator) failureLimit() int {
	if o.FailureLimit <= 0 {
		return DefaultFailureLimit
	}
	return o.FailureLimit
}

func (o *Orchestrator) notify(event ProgressEvent) {
	if o.Progress != nil {
		o.Progress(event)
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
