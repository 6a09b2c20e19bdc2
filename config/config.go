// Package config loads seomate settings from defaults, an optional YAML file
// and environment overrides, in that order.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fwojciec/seomate"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig      = "SEOMATE_CONFIG"
	EnvDB          = "SEOMATE_DB"
	EnvProvider    = "SEOMATE_AI_PROVIDER"
	EnvModel       = "SEOMATE_MODEL"
	EnvLogLevel    = "SEOMATE_LOG_LEVEL"
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvOpenAIURL   = "OPENAI_BASE_URL"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvAIRequired  = "SEOMATE_AI_REQUIRED"
	EnvBatchBudget = "SEOMATE_BATCH_BUDGET"
)

// AI providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds all runtime settings.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`
	Excerpt  ExcerptConfig  `yaml:"excerpt"`
	Tags     TagsConfig     `yaml:"tags"`
	SEO      SEOConfig      `yaml:"seo"`
	Batch    BatchConfig    `yaml:"batch"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AIConfig selects and tunes the AI gateway.
type AIConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`

	// Timeout bounds interactive calls; BatchTimeout bounds calls made by
	// batch runs.
	Timeout      time.Duration `yaml:"timeout"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`

	Temperature       float64       `yaml:"temperature"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`

	// Required makes generation unavailable without credentials instead of
	// falling back to heuristics.
	Required bool `yaml:"required"`
}

// Configured reports whether an AI gateway can be constructed.
func (c AIConfig) Configured() bool {
	return c.Provider != ProviderNone && c.APIKey != ""
}

// ExcerptConfig tunes excerpt generation.
type ExcerptConfig struct {
	Length           int      `yaml:"length"`
	MinContentLength int      `yaml:"min_content_length"`
	Placeholder      string   `yaml:"placeholder"`
	Prompt           string   `yaml:"prompt"`
	MaxTokens        int      `yaml:"max_tokens"`
	Shortcodes       []string `yaml:"shortcodes"`
}

// TagsConfig tunes tag generation.
type TagsConfig struct {
	Vocabulary []string `yaml:"vocabulary"`
	Generic    []string `yaml:"generic"`
	Prompt     string   `yaml:"prompt"`
	MaxTokens  int      `yaml:"max_tokens"`
}

// SEOConfig tunes SEO scoring.
type SEOConfig struct {
	Weights        map[string]float64 `yaml:"weights"`
	CacheTTL       time.Duration      `yaml:"cache_ttl"`
	ExpectedFields []string           `yaml:"expected_fields"`
	Prompt         string             `yaml:"prompt"`
	MaxTokens      int                `yaml:"max_tokens"`
}

// BatchConfig tunes batch runs and the scheduler daemon.
type BatchConfig struct {
	Budget       time.Duration `yaml:"budget"`
	SafetyMargin time.Duration `yaml:"safety_margin"`
	FailureLimit int           `yaml:"failure_limit"`
	Interval     time.Duration `yaml:"interval"`
	Tick         time.Duration `yaml:"tick"`
	Status       string        `yaml:"status"`
}

// ImportConfig tunes document import.
type ImportConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: defaultDBPath()},
		AI: AIConfig{
			Provider:          ProviderOpenAI,
			Timeout:           30 * time.Second,
			BatchTimeout:      60 * time.Second,
			Temperature:       0.3,
			RequestsPerSecond: 2,
			CacheTTL:          7 * 24 * time.Hour,
		},
		Excerpt: ExcerptConfig{
			Length:           160,
			MinContentLength: 50,
			Placeholder:      "Read the full article for details.",
		},
		SEO: SEOConfig{
			CacheTTL:       24 * time.Hour,
			ExpectedFields: append([]string(nil), seomate.DefaultAnalysisFields...),
		},
		Batch: BatchConfig{
			Budget:       5 * time.Minute,
			SafetyMargin: 10 * time.Second,
			FailureLimit: 3,
			Interval:     24 * time.Hour,
			Tick:         time.Minute,
		},
		Import: ImportConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 1,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// the process environment. An empty path falls back to SEOMATE_CONFIG; a
// missing file is not an error unless the path was given explicitly.
func Load(path string) (Config, error) {
	return LoadEnv(path, os.Getenv)
}

// LoadEnv is Load with an explicit environment lookup.
func LoadEnv(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = getenv(EnvConfig)
		explicit = path != ""
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, seomate.Errorf(seomate.EINVALID, "parse config %s: %v", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, seomate.Errorf(seomate.EINVALID, "read config %s: %v", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := getenv(EnvProvider); v != "" {
		c.AI.Provider = v
	}
	if v := getenv(EnvModel); v != "" {
		c.AI.Model = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvAIRequired); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return seomate.Errorf(seomate.EINVALID, "%s: %v", EnvAIRequired, err)
		}
		c.AI.Required = b
	}
	if v := getenv(EnvBatchBudget); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return seomate.Errorf(seomate.EINVALID, "%s: %v", EnvBatchBudget, err)
		}
		c.Batch.Budget = d
	}

	switch c.AI.Provider {
	case ProviderOpenAI:
		if v := getenv(EnvOpenAIKey); v != "" && c.AI.APIKey == "" {
			c.AI.APIKey = v
		}
		if v := getenv(EnvOpenAIURL); v != "" {
			c.AI.BaseURL = v
		}
	case ProviderGemini:
		if v := getenv(EnvGeminiKey); v != "" && c.AI.APIKey == "" {
			c.AI.APIKey = v
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return seomate.Errorf(seomate.EINVALID, "unknown ai provider %q", c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return seomate.Errorf(seomate.EINVALID, "ai temperature must be between 0 and 2")
	}
	if c.AI.RequestsPerSecond < 0 {
		return seomate.Errorf(seomate.EINVALID, "ai requests_per_second must not be negative")
	}
	if c.Excerpt.Length <= 0 {
		return seomate.Errorf(seomate.EINVALID, "excerpt length must be positive")
	}
	if c.Batch.Budget <= 0 {
		return seomate.Errorf(seomate.EINVALID, "batch budget must be positive")
	}
	if c.Batch.FailureLimit <= 0 {
		return seomate.Errorf(seomate.EINVALID, "batch failure_limit must be positive")
	}
	for name, w := range c.SEO.Weights {
		if w < 0 {
			return seomate.Errorf(seomate.EINVALID, "seo weight %q must not be negative", name)
		}
	}
	if c.Batch.Status != "" {
		doc := seomate.Document{Title: "x", Status: seomate.DocumentStatus(c.Batch.Status)}
		if err := doc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "seomate.db"
	}
	return filepath.Join(home, ".seomate", "seomate.db")
}
