package mock

import (
	"context"
	"time"

	"github.com/fwojciec/seomate"
)

var (
	_ seomate.Cache           = (*Cache)(nil)
	_ seomate.OptionService   = (*OptionService)(nil)
	_ seomate.Scheduler       = (*Scheduler)(nil)
	_ seomate.AnalysisService = (*AnalysisService)(nil)
)

// Cache is a mock implementation of seomate.Cache.
type Cache struct {
	GetFn         func(ctx context.Context, group, key string) ([]byte, bool, error)
	SetFn         func(ctx context.Context, group, key string, value []byte, ttl time.Duration) error
	DeleteFn      func(ctx context.Context, group, key string) error
	DeleteGroupFn func(ctx context.Context, group string) error
}

func (c *Cache) Get(ctx context.Context, group, key string) ([]byte, bool, error) {
	return c.GetFn(ctx, group, key)
}

func (c *Cache) Set(ctx context.Context, group, key string, value []byte, ttl time.Duration) error {
	return c.SetFn(ctx, group, key, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, group, key string) error {
	return c.DeleteFn(ctx, group, key)
}

func (c *Cache) DeleteGroup(ctx context.Context, group string) error {
	return c.DeleteGroupFn(ctx, group)
}

// OptionService is a mock implementation of seomate.OptionService.
type OptionService struct {
	OptionFn    func(ctx context.Context, key, def string) (string, error)
	SetOptionFn func(ctx context.Context, key, value string) error
}

func (s *OptionService) Option(ctx context.Context, key, def string) (string, error) {
	return s.OptionFn(ctx, key, def)
}

func (s *OptionService) SetOption(ctx context.Context, key, value string) error {
	return s.SetOptionFn(ctx, key, value)
}

// Scheduler is a mock implementation of seomate.Scheduler.
type Scheduler struct {
	ScheduleRecurringFn func(ctx context.Context, name string, interval time.Duration) error
	UnscheduleFn        func(ctx context.Context, name string) error
	FindSchedulesFn     func(ctx context.Context) ([]*seomate.Schedule, error)
	MarkRunFn           func(ctx context.Context, name string, at time.Time) error
}

func (s *Scheduler) ScheduleRecurring(ctx context.Context, name string, interval time.Duration) error {
	return s.ScheduleRecurringFn(ctx, name, interval)
}

func (s *Scheduler) Unschedule(ctx context.Context, name string) error {
	return s.UnscheduleFn(ctx, name)
}

func (s *Scheduler) FindSchedules(ctx context.Context) ([]*seomate.Schedule, error) {
	return s.FindSchedulesFn(ctx)
}

func (s *Scheduler) MarkRun(ctx context.Context, name string, at time.Time) error {
	return s.MarkRunFn(ctx, name, at)
}

// AnalysisService is a mock implementation of seomate.AnalysisService.
type AnalysisService struct {
	SaveAnalysisFn             func(ctx context.Context, rec *seomate.SEOAnalysisRecord) error
	FindAnalysisByDocumentIDFn func(ctx context.Context, documentID string) (*seomate.SEOAnalysisRecord, error)
}

func (s *AnalysisService) SaveAnalysis(ctx context.Context, rec *seomate.SEOAnalysisRecord) error {
	return s.SaveAnalysisFn(ctx, rec)
}

func (s *AnalysisService) FindAnalysisByDocumentID(ctx context.Context, documentID string) (*seomate.SEOAnalysisRecord, error) {
	return s.FindAnalysisByDocumentIDFn(ctx, documentID)
}
