package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/batch"
	"github.com/fwojciec/seomate/config"
	"github.com/fwojciec/seomate/importer"
	"github.com/fwojciec/seomate/service"
	"github.com/fwojciec/seomate/sqlite"
)

// Pipeline is the request surface the commands drive. *service.Service
// implements it.
type Pipeline interface {
	GenerateExcerpt(ctx context.Context, id string, length int) (*service.ExcerptResponse, error)
	GenerateTags(ctx context.Context, id string) (*service.TagsResponse, error)
	AnalyzeSEO(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error)
	FindAnalysis(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error)
	BatchGenerate(ctx context.Context, operation string, budget time.Duration) (*seomate.BatchRunState, error)
}

var _ Pipeline = (*service.Service)(nil)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    config.Config
	DB        *sqlite.DB
	Documents seomate.DocumentService
	Options   seomate.OptionService
	Scheduler seomate.Scheduler
	Cache     seomate.Cache
	Pipeline  Pipeline
	Importer  *importer.Importer
	Runner    *batch.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Path to a YAML config file (default: $SEOMATE_CONFIG)"`

	Excerpt  ExcerptCmd  `cmd:"" help:"Generate and store an excerpt for a document"`
	Tags     TagsCmd     `cmd:"" help:"Generate and store tags for a document"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Score a document for SEO quality"`
	Batch    BatchCmd    `cmd:"" help:"Run an operation over stored documents within a time budget"`
	Schedule ScheduleCmd `cmd:"" help:"Manage recurring batch jobs"`
	Daemon   DaemonCmd   `cmd:"" help:"Run scheduled batch jobs until interrupted"`
	Import   ImportCmd   `cmd:"" help:"Import documents from the web or local files"`
	Docs     DocsCmd     `cmd:"" help:"List stored documents"`
	Cache    CacheCmd    `cmd:"" help:"Manage the AI response cache"`
}

// ExcerptCmd is the "excerpt" subcommand.
type ExcerptCmd struct {
	ID     string `arg:"" help:"Document ID"`
	Length int    `short:"l" help:"Target length in characters (default from config)"`
}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct {
	ID string `arg:"" help:"Document ID"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	ID   string `arg:"" help:"Document ID"`
	Show bool   `help:"Show the stored analysis instead of running a new one"`
	JSON bool   `name:"json" help:"Print the analysis record as JSON"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Operation string        `arg:"" enum:"excerpt,tags,seo" help:"Operation to run (excerpt, tags, seo)"`
	Budget    time.Duration `short:"b" help:"Time budget for the run (default from config)"`
}

// ScheduleCmd groups the "schedule" subcommands.
type ScheduleCmd struct {
	Enable  ScheduleEnableCmd  `cmd:"" help:"Run an operation on a recurring interval"`
	Disable ScheduleDisableCmd `cmd:"" help:"Stop a recurring operation"`
	List    ScheduleListCmd    `cmd:"" help:"List recurring operations"`
}

// ScheduleEnableCmd is the "schedule enable" subcommand.
type ScheduleEnableCmd struct {
	Operation string        `arg:"" enum:"excerpt,tags,seo" help:"Operation to schedule (excerpt, tags, seo)"`
	Interval  time.Duration `short:"i" help:"Interval between runs (default from config)"`
}

// ScheduleDisableCmd is the "schedule disable" subcommand.
type ScheduleDisableCmd struct {
	Operation string `arg:"" enum:"excerpt,tags,seo" help:"Operation to unschedule (excerpt, tags, seo)"`
}

// ScheduleListCmd is the "schedule list" subcommand.
type ScheduleListCmd struct{}

// DaemonCmd is the "daemon" subcommand.
type DaemonCmd struct{}

// ImportCmd groups the "import" subcommands.
type ImportCmd struct {
	URL      ImportURLCmd      `cmd:"" name:"url" help:"Import an article from a web page"`
	Feed     ImportFeedCmd     `cmd:"" help:"Import every article of an RSS or Atom feed"`
	Markdown ImportMarkdownCmd `cmd:"" help:"Import Markdown files"`
}

// ImportURLCmd is the "import url" subcommand.
type ImportURLCmd struct {
	URL string `arg:"" help:"Article URL"`
}

// ImportFeedCmd is the "import feed" subcommand.
type ImportFeedCmd struct {
	URL         string `arg:"" help:"Feed URL"`
	Concurrency int    `default:"4" help:"Concurrent page fetch limit"`
}

// ImportMarkdownCmd is the "import markdown" subcommand.
type ImportMarkdownCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Markdown files"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Status         string `help:"Only documents with this status (draft, pending, published, private)"`
	MissingExcerpt bool   `help:"Only documents without an excerpt"`
	Limit          int    `short:"n" default:"50" help:"Maximum number of documents to list"`
	Oldest         bool   `help:"List oldest documents first"`
}

// CacheCmd groups the "cache" subcommands.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Remove cached AI responses"`
}

// CacheClearCmd is the "cache clear" subcommand.
type CacheClearCmd struct {
	Group string `arg:"" optional:"" enum:"ai,seo,all" default:"all" help:"Cache group to clear (ai, seo, all)"`
}
