package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/batch"
	"github.com/fwojciec/seomate/cache"
	"github.com/fwojciec/seomate/config"
	"github.com/fwojciec/seomate/excerpt"
	"github.com/fwojciec/seomate/gemini"
	"github.com/fwojciec/seomate/goldmark"
	"github.com/fwojciec/seomate/goquery"
	"github.com/fwojciec/seomate/htmltomarkdown"
	seomatehttp "github.com/fwojciec/seomate/http"
	"github.com/fwojciec/seomate/importer"
	"github.com/fwojciec/seomate/jsonrepair"
	"github.com/fwojciec/seomate/openai"
	"github.com/fwojciec/seomate/ratelimit"
	"github.com/fwojciec/seomate/readability"
	"github.com/fwojciec/seomate/seo"
	"github.com/fwojciec/seomate/service"
	seomateslog "github.com/fwojciec/seomate/slog"
	"github.com/fwojciec/seomate/sqlite"
	"github.com/fwojciec/seomate/tags"
	"github.com/fwojciec/seomate/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv looks up environment variables. Set before calling Run().
	Getenv func(string) string

	// Config is loaded by Run from defaults, file and environment.
	Config config.Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Completer is the AI gateway chain; nil when no provider is configured.
	// Tests may set it before calling Run() to bypass gateway construction.
	Completer seomate.Completer

	Logger *slog.Logger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("seomate"),
		kong.Description("Excerpts, tags and SEO reports for stored articles."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'seomate --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := config.LoadEnv(cli.Config, m.Getenv)
	if err != nil {
		return err
	}
	m.Config = cfg
	deps.Config = cfg

	if m.Logger == nil {
		m.Logger, err = seomateslog.NewLogger(cfg.Logging.Level, stderr)
		if err != nil {
			return err
		}
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." && cfg.Database.Path != ":memory:" {
		_ = os.MkdirAll(dir, 0o755)
	}
	m.DB = sqlite.NewDB(cfg.Database.Path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", config.EnvDB)
		return fmt.Errorf("failed to open database at %q: %w", cfg.Database.Path, err)
	}
	defer m.Close()

	documents := sqlite.NewDocumentService(m.DB)
	options := sqlite.NewOptionService(m.DB)
	scheduler := sqlite.NewScheduler(m.DB)
	store := sqlite.NewCache(m.DB)

	deps.DB = m.DB
	deps.Documents = documents
	deps.Options = options
	deps.Scheduler = scheduler
	deps.Cache = store

	switch cmd {
	case "excerpt", "tags", "analyze", "batch", "daemon":
		svc, orchestrator, err := m.buildService(ctx, cmd, documents, options, scheduler, store)
		if err != nil {
			return err
		}
		if cmd == "batch" {
			orchestrator.Progress = batchProgress(stdout)
		}
		deps.Pipeline = svc
		deps.Runner = &batch.Runner{
			Scheduler:    scheduler,
			Orchestrator: orchestrator,
			Budget:       cfg.Batch.Budget,
			Tick:         cfg.Batch.Tick,
			Logger:       m.Logger,
		}
	case "import":
		deps.Importer = m.buildImporter(documents)
	}

	return kongCtx.Run(deps)
}

// buildService wires the generation pipeline over the sqlite stores.
func (m *Main) buildService(
	ctx context.Context,
	cmd string,
	documents seomate.DocumentService,
	options seomate.OptionService,
	scheduler seomate.Scheduler,
	store seomate.Cache,
) (*service.Service, *batch.Orchestrator, error) {
	cfg := m.Config
	logger := m.Logger

	// Batch runs tolerate slower AI replies than interactive commands.
	timeout := cfg.AI.Timeout
	if cmd == "batch" || cmd == "daemon" {
		timeout = cfg.AI.BatchTimeout
	}

	ai := m.Completer
	if ai == nil && cfg.AI.Configured() {
		gw, err := newGateway(ctx, cfg.AI, timeout)
		if err != nil {
			return nil, nil, err
		}
		ai = gw
		if cfg.AI.RequestsPerSecond > 0 {
			ai = ratelimit.NewCompleter(ai, cfg.AI.RequestsPerSecond)
		}
		ai = seomateslog.NewLoggingCompleter(ai, logger)
	}

	loader := cache.NewLoader(store)
	loader.Logger = logger

	normalizer := goquery.NewNormalizer()
	if cfg.Excerpt.MinContentLength > 0 {
		normalizer.MinLength = cfg.Excerpt.MinContentLength
	}
	normalizer.Shortcodes = cfg.Excerpt.Shortcodes

	// Excerpt and tag prompts are cached by prompt text; the scorer caches
	// its analyses itself.
	var cached seomate.Completer
	if ai != nil {
		cached = cache.NewCompleter(ai, loader, cfg.AI.CacheTTL)
	}

	excerpts := excerpt.NewGenerator(cached, normalizer)
	excerpts.Temperature = cfg.AI.Temperature
	excerpts.Logger = logger
	if cfg.Excerpt.Placeholder != "" {
		excerpts.Placeholder = cfg.Excerpt.Placeholder
	}
	if cfg.Excerpt.MaxTokens > 0 {
		excerpts.MaxTokens = cfg.Excerpt.MaxTokens
	}
	if cfg.Excerpt.Prompt != "" {
		t, err := excerpt.ParsePrompt(cfg.Excerpt.Prompt)
		if err != nil {
			return nil, nil, err
		}
		excerpts.Prompt = t
	}

	tagger := tags.NewGenerator(cached, normalizer)
	tagger.Vocabulary = cfg.Tags.Vocabulary
	tagger.Logger = logger
	if len(cfg.Tags.Generic) > 0 {
		tagger.Generic = cfg.Tags.Generic
	}
	if cfg.Tags.MaxTokens > 0 {
		tagger.MaxTokens = cfg.Tags.MaxTokens
	}
	if cfg.Tags.Prompt != "" {
		t, err := tags.ParsePrompt(cfg.Tags.Prompt)
		if err != nil {
			return nil, nil, err
		}
		tagger.Prompt = t
	}

	analyses := seomateslog.NewLoggingAnalysisService(sqlite.NewAnalysisService(m.DB), logger)

	scorer := seo.NewScorer(normalizer, jsonrepair.NewParser(), analyses)
	scorer.AI = ai
	scorer.Converter = htmltomarkdown.NewConverter()
	scorer.Loader = loader
	scorer.CacheTTL = cfg.SEO.CacheTTL
	scorer.CacheVersion = cfg.AI.Provider + "/" + cfg.AI.Model
	scorer.Weights = cfg.SEO.Weights
	scorer.Logger = logger
	if len(cfg.SEO.ExpectedFields) > 0 {
		scorer.ExpectedFields = cfg.SEO.ExpectedFields
	}
	if cfg.SEO.MaxTokens > 0 {
		scorer.MaxTokens = cfg.SEO.MaxTokens
	}
	if cfg.SEO.Prompt != "" {
		t, err := seo.ParsePrompt(cfg.SEO.Prompt)
		if err != nil {
			return nil, nil, err
		}
		scorer.Prompt = t
	}

	svc := &service.Service{
		Documents:     documents,
		Excerpts:      excerpts,
		Tags:          tagger,
		Scorer:        scorer,
		Analyses:      analyses,
		AIConfigured:  ai != nil,
		AIRequired:    cfg.AI.Required,
		ExcerptLength: cfg.Excerpt.Length,
		Logger:        logger,
	}

	orchestrator := batch.NewOrchestrator(documents, options, scheduler, batch.NewRegistry(svc.Operations()...))
	orchestrator.SafetyMargin = cfg.Batch.SafetyMargin
	orchestrator.FailureLimit = cfg.Batch.FailureLimit
	orchestrator.Logger = logger
	if cfg.Batch.Status != "" {
		status := seomate.DocumentStatus(cfg.Batch.Status)
		orchestrator.Filter.Status = &status
	}
	svc.Batches = orchestrator

	return svc, orchestrator, nil
}

func (m *Main) buildImporter(documents seomate.DocumentService) *importer.Importer {
	cfg := m.Config.Import

	var opts []seomatehttp.Option
	if cfg.Timeout > 0 {
		opts = append(opts, seomatehttp.WithTimeout(cfg.Timeout))
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, seomatehttp.WithHostLimiter(ratelimit.NewHostLimiter(cfg.RequestsPerSecond)))
	}
	fetcher := seomatehttp.NewFetcher(opts...)

	return &importer.Importer{
		Documents:  documents,
		Fetcher:    seomateslog.NewLoggingFetcher(fetcher, m.Logger),
		Feeds:      seomateslog.NewLoggingFeedService(seomatehttp.NewFeedService(fetcher), m.Logger),
		Extractors: []seomate.Extractor{trafilatura.NewExtractor(), readability.NewExtractor()},
		Renderer:   goldmark.NewRenderer(),
		Logger:     m.Logger,
	}
}

// newGateway constructs the configured AI gateway.
func newGateway(ctx context.Context, cfg config.AIConfig, timeout time.Duration) (seomate.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		gw := gemini.NewGateway(client)
		if cfg.Model != "" {
			gw.Model = cfg.Model
		}
		gw.Timeout = timeout
		return gw, nil
	default:
		gw := openai.NewGateway(cfg.APIKey, cfg.BaseURL)
		if cfg.Model != "" {
			gw.Model = cfg.Model
		}
		gw.Timeout = timeout
		return gw, nil
	}
}
