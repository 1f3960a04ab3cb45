// Package config loads run settings from a YAML file, CHAINBENCH_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/golovatskygroup/chainbench/internal/align"
	"github.com/golovatskygroup/chainbench/internal/executor"
	"github.com/golovatskygroup/chainbench/internal/planner"
	"github.com/golovatskygroup/chainbench/internal/scenario"
	"github.com/golovatskygroup/chainbench/internal/telemetry"
)

const EnvPrefix = "CHAINBENCH"

const (
	IndexLexical   = "lexical"
	IndexEmbedding = "embedding"
)

// Endpoint is one OpenAI-compatible server.
type Endpoint struct {
	URL     string        `mapstructure:"endpoint"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PlannerConfig struct {
	Endpoint   `mapstructure:",squash"`
	MaxSteps   int  `mapstructure:"max_steps"`
	RepairJSON bool `mapstructure:"repair_json"`
}

type RouterConfig struct {
	Endpoint         `mapstructure:",squash"`
	TopK             int                  `mapstructure:"top_k"`
	NativeTools      bool                 `mapstructure:"native_tools"`
	DetectDeflection bool                 `mapstructure:"detect_deflection"`
	Retry            executor.RetryPolicy `mapstructure:"retry"`
}

type IndexConfig struct {
	Kind string `mapstructure:"kind"`
	// Endpoint serves /v1/embeddings; empty means the router endpoint.
	Endpoint    string `mapstructure:"endpoint"`
	Model       string `mapstructure:"model"`
	CachePath   string `mapstructure:"cache_path"`
	CacheSize   int    `mapstructure:"cache_size"`
	BatchSize   int    `mapstructure:"batch_size"`
	Concurrency int    `mapstructure:"concurrency"`
}

type FilterConfig struct {
	MemoSize int `mapstructure:"memo_size"`
}

type ScenarioConfig struct {
	File       string `mapstructure:"file"`
	Difficulty string `mapstructure:"difficulty"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Planner   PlannerConfig    `mapstructure:"planner"`
	Router    RouterConfig     `mapstructure:"router"`
	Index     IndexConfig      `mapstructure:"index"`
	Filter    FilterConfig     `mapstructure:"filter"`
	Align     align.Weights    `mapstructure:"align"`
	Scenarios ScenarioConfig   `mapstructure:"scenarios"`
	Output    OutputConfig     `mapstructure:"output"`
	Log       LogConfig        `mapstructure:"log"`
	Tracing   telemetry.Config `mapstructure:"tracing"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	retry := executor.DefaultRetryPolicy()
	weights := align.DefaultWeights()

	v.SetDefault("router.endpoint", "http://localhost:8082")
	v.SetDefault("router.model", "")
	v.SetDefault("router.api_key", "")
	v.SetDefault("router.timeout", "120s")
	v.SetDefault("router.top_k", 15)
	v.SetDefault("router.native_tools", false)
	v.SetDefault("router.detect_deflection", false)
	v.SetDefault("router.retry.max_attempts", retry.MaxAttempts)
	v.SetDefault("router.retry.attempt_timeout", retry.AttemptTimeout.String())
	v.SetDefault("router.retry.backoff.initial", retry.Backoff.Initial.String())
	v.SetDefault("router.retry.backoff.max", retry.Backoff.Max.String())
	v.SetDefault("router.retry.backoff.multiplier", retry.Backoff.Multiplier)
	v.SetDefault("router.retry.backoff.jitter", retry.Backoff.Jitter)

	v.SetDefault("planner.endpoint", "")
	v.SetDefault("planner.model", "")
	v.SetDefault("planner.api_key", "")
	v.SetDefault("planner.timeout", "120s")
	v.SetDefault("planner.max_steps", planner.DefaultMaxSteps)
	v.SetDefault("planner.repair_json", false)

	v.SetDefault("index.kind", IndexLexical)
	v.SetDefault("index.endpoint", "")
	v.SetDefault("index.model", "")
	v.SetDefault("index.cache_path", "")
	v.SetDefault("index.cache_size", 1024)
	v.SetDefault("index.batch_size", 16)
	v.SetDefault("index.concurrency", 4)

	v.SetDefault("filter.memo_size", 256)

	v.SetDefault("align.server_hint", weights.ServerHint)
	v.SetDefault("align.server_mention", weights.ServerMention)
	v.SetDefault("align.tool_mention", weights.ToolMention)
	v.SetDefault("align.action_mention", weights.ActionMention)
	v.SetDefault("align.keyword", weights.Keyword)
	v.SetDefault("align.min_word_len", weights.MinWordLen)

	v.SetDefault("scenarios.file", "")
	v.SetDefault("scenarios.difficulty", "")

	v.SetDefault("output.dir", ".results")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.service_name", "chainbench")
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"endpoint":         "router.endpoint",
	"planner-endpoint": "planner.endpoint",
	"top-k":            "router.top_k",
	"difficulty":       "scenarios.difficulty",
	"max-retries":      "router.retry.max_attempts",
	"scenarios":        "scenarios.file",
	"out":              "output.dir",
	"index":            "index.kind",
	"log-level":        "log.level",
	"log-format":       "log.format",
}

// BindFlags binds every flag in fs that has a config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads path (when set), unmarshals and validates.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyFallbacks()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyFallbacks() {
	c.Router.URL = strings.TrimRight(strings.TrimSpace(c.Router.URL), "/")
	c.Planner.URL = strings.TrimRight(strings.TrimSpace(c.Planner.URL), "/")
	if c.Planner.URL == "" {
		c.Planner.URL = c.Router.URL
	}
	if c.Index.Endpoint == "" {
		c.Index.Endpoint = c.Router.URL
	}
	c.Index.Kind = strings.ToLower(strings.TrimSpace(c.Index.Kind))
	c.Scenarios.Difficulty = strings.ToLower(strings.TrimSpace(c.Scenarios.Difficulty))
	if c.Scenarios.Difficulty == "all" {
		c.Scenarios.Difficulty = ""
	}
}

func (c *Config) Validate() error {
	var errs []error
	if err := checkURL(c.Router.URL); err != nil {
		errs = append(errs, fmt.Errorf("router.endpoint: %w", err))
	}
	if err := checkURL(c.Planner.URL); err != nil {
		errs = append(errs, fmt.Errorf("planner.endpoint: %w", err))
	}
	if c.Router.TopK < 0 {
		errs = append(errs, fmt.Errorf("router.top_k must be >= 0, got %d", c.Router.TopK))
	}
	if c.Router.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("router.retry.max_attempts must be >= 1, got %d", c.Router.Retry.MaxAttempts))
	}
	if c.Planner.MaxSteps < 1 {
		errs = append(errs, fmt.Errorf("planner.max_steps must be >= 1, got %d", c.Planner.MaxSteps))
	}
	switch c.Index.Kind {
	case IndexLexical:
	case IndexEmbedding:
		if c.Index.Model == "" {
			errs = append(errs, errors.New("index.model is required for the embedding index"))
		}
	default:
		errs = append(errs, fmt.Errorf("index.kind must be %q or %q, got %q", IndexLexical, IndexEmbedding, c.Index.Kind))
	}
	if _, err := scenario.ParseDifficulty(c.Scenarios.Difficulty); err != nil {
		errs = append(errs, err)
	}
	if c.Align.MinWordLen < 0 {
		errs = append(errs, errors.New("align.min_word_len must be >= 0"))
	}
	return errors.Join(errs...)
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("want an http(s) URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
