// Package config provides configuration loading and validation for the CLI
// and the HTTP service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/dnav/internal/extraction"
	"github.com/jonathan/dnav/internal/logging"
	"github.com/jonathan/dnav/internal/rules"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. DNAV_SERVER_PORT.
const EnvPrefix = "DNAV_"

const maxConfigFileSize = 1024 * 1024

// Config is the full service configuration.
type Config struct {
	Extraction ExtractionConfig `koanf:"extraction"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Logging    logging.Config   `koanf:"logging"`
	Auth       AuthConfig       `koanf:"auth"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	Fetch      FetchConfig      `koanf:"fetch"`
}

// ExtractionConfig overrides the pipeline tunables. Zero values keep the
// defaults.
type ExtractionConfig struct {
	MinSegmentLength    int     `koanf:"min_segment_length" validate:"gte=0"`
	MaxSegmentLength    int     `koanf:"max_segment_length" validate:"gte=0"`
	RepeatedLineShare   float64 `koanf:"repeated_line_share" validate:"gte=0,lte=1"`
	// ScoreThreshold and MinCandidateFloor are pointers so an explicit 0
	// (no threshold, no floor) differs from unset.
	ScoreThreshold    *int `koanf:"score_threshold"`
	MinCandidateFloor *int `koanf:"min_candidate_floor" validate:"omitempty,gte=0"`
	DuplicateSimilarity float64 `koanf:"duplicate_similarity" validate:"gte=0,lte=1"`
	MaxTitleWords       int     `koanf:"max_title_words" validate:"gte=0"`
	MaxTitleChars       int     `koanf:"max_title_chars" validate:"gte=0"`
	Parallelism         int     `koanf:"parallelism" validate:"gte=0,lte=256"`
	// ExtraRules are appended to the default cue lists.
	ExtraRules rules.Lists `koanf:"rules"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gte=0"`
}

// DatabaseConfig configures review storage. An empty URL disables it.
type DatabaseConfig struct {
	URL string `koanf:"url" validate:"omitempty,url"`
}

// AuthConfig configures reviewer tokens.
type AuthConfig struct {
	JWTSecret       string `koanf:"jwt_secret"`
	ExpirationHours int    `koanf:"expiration_hours" validate:"gte=0"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled           bool     `koanf:"enabled"`
	RequestsPerMinute int      `koanf:"requests_per_minute" validate:"gte=0"`
	Burst             int      `koanf:"burst" validate:"gte=0"`
	Whitelist         []string `koanf:"whitelist" validate:"dive,ip"`
	Blacklist         []string `koanf:"blacklist" validate:"dive,ip"`
}

// FetchConfig configures URL ingestion.
type FetchConfig struct {
	Timeout    time.Duration `koanf:"timeout"`
	UserAgent  string        `koanf:"user_agent"`
	UseBrowser bool          `koanf:"use_browser"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
		},
		Logging: logging.NewDefaultConfig(),
		Auth:    AuthConfig{ExpirationHours: 24},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
			Burst:             20,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			UserAgent: "dnav-agent/1.0",
		},
	}
}

// Load reads the YAML file at path (optional), then applies DNAV_*
// environment overrides and the legacy DATABASE_URL / JWT_SECRET variables.
//
// Environment keys split on the first underscore after the prefix:
//
//	DNAV_SERVER_PORT                -> server.port
//	DNAV_EXTRACTION_SCORE_THRESHOLD -> extraction.score_threshold
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyLegacyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s too large: %d bytes (max %d)", path, info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return content, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func applyLegacyEnv(cfg *Config) {
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
}

// Validate checks struct constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	e := c.Extraction
	if e.MinSegmentLength > 0 && e.MaxSegmentLength > 0 && e.MaxSegmentLength < e.MinSegmentLength {
		return fmt.Errorf("config error: 'max_segment_length' must not be below 'min_segment_length'")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute == 0 {
		return fmt.Errorf("config error: 'requests_per_minute' must be positive when rate limiting is enabled")
	}
	return nil
}

// ExtractionOptions converts the extraction section into pipeline options.
// It fails only when an extra timeline pattern does not compile.
func (c *Config) ExtractionOptions() (extraction.Options, error) {
	opts := extraction.DefaultOptions()
	e := c.Extraction

	if e.MinSegmentLength > 0 {
		opts.MinSegmentLength = e.MinSegmentLength
	}
	if e.MaxSegmentLength > 0 {
		opts.MaxSegmentLength = e.MaxSegmentLength
	}
	if e.RepeatedLineShare > 0 {
		opts.RepeatedLineShare = e.RepeatedLineShare
	}
	if e.ScoreThreshold != nil {
		opts.ScoreThreshold = *e.ScoreThreshold
	}
	if e.MinCandidateFloor != nil {
		opts.MinCandidateFloor = *e.MinCandidateFloor
	}
	if e.DuplicateSimilarity > 0 {
		opts.DuplicateSimilarity = e.DuplicateSimilarity
	}
	if e.MaxTitleWords > 0 {
		opts.MaxTitleWords = e.MaxTitleWords
	}
	if e.MaxTitleChars > 0 {
		opts.MaxTitleChars = e.MaxTitleChars
	}
	if e.Parallelism > 0 {
		opts.Parallelism = e.Parallelism
	}

	rs, err := rules.Compile(rules.DefaultLists().Merge(e.ExtraRules))
	if err != nil {
		return extraction.Options{}, fmt.Errorf("failed to compile extraction rules: %w", err)
	}
	opts.Rules = rs

	if err := opts.Validate(); err != nil {
		return extraction.Options{}, fmt.Errorf("config error: %w", err)
	}
	return opts, nil
}

// JWT returns the reviewer-token settings. It fails when no secret is set.
func (c *Config) JWT() (*JWTConfig, error) {
	cfg := &JWTConfig{Secret: c.Auth.JWTSecret, ExpirationHours: c.Auth.ExpirationHours}
	if cfg.ExpirationHours == 0 {
		cfg.ExpirationHours = 24
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
