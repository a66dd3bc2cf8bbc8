// Package config defines all configuration structures for NicheSignal.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the optional
// scan-run store.  The pipeline runs without a database when Enabled is false.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the embedding cache.
// The embedder falls back to uncached calls when Enabled is false.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// LLMConfig holds the external classifier model parameters.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"` // "openai" | "ollama"
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

// EmbeddingConfig holds the embedding model parameters.
type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"` // "openai" | "ollama"
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// DetectionConfig holds the aspect catalog overrides and the relevance
// thresholds applied by the pipeline.  Loaded once at startup and read-only
// afterwards; the catalog built from it is immutable.
type DetectionConfig struct {
	// Industry names the niche under scrutiny.  It parameterizes the
	// semantic anchors, the classifier prompt, and the search queries; the
	// scan command's --industry flag overrides it per run.
	Industry string `mapstructure:"industry"`

	// AspectWeights overrides the default weight per aspect kind, keyed by
	// the kind's string form (e.g. "seeking_alternative").
	AspectWeights map[string]float64 `mapstructure:"aspect_weights"`

	// ExtraNoisePatterns appends regexes to the built-in noise set.
	ExtraNoisePatterns []string `mapstructure:"extra_noise_patterns"`

	// AspectThreshold is the minimum weighted aspect score for a post to be
	// relevant on aspect evidence alone.
	AspectThreshold float64 `mapstructure:"aspect_threshold"`

	// SemanticThreshold is the minimum semantic score for a post with at
	// least one aspect to be relevant.
	SemanticThreshold float64 `mapstructure:"semantic_threshold"`

	// MinRelevant is the relevant-post count beneath which the orchestrator
	// signals that a broader search round is needed.
	MinRelevant int `mapstructure:"min_relevant"`

	// Concurrency caps the pipeline worker pool for batch scoring.
	Concurrency int `mapstructure:"concurrency"`
}

// SemanticConfig holds the signal-vs-noise tunables of the relevance scorer.
type SemanticConfig struct {
	// NoiseFloor is the similarity above which a noise anchor is considered
	// a credible match.
	NoiseFloor float64 `mapstructure:"noise_floor"`

	// NoisePenalty is subtracted from the score when noise dominates.
	NoisePenalty float64 `mapstructure:"noise_penalty"`
}

// SearchConfig holds the web-search collaborator parameters.
type SearchConfig struct {
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`

	// PainKeywords overrides the built-in keyword categories driving the
	// per-category search queries. Empty means use the defaults.
	PainKeywords map[string][]string `mapstructure:"pain_keywords"`
}

// ScraperConfig holds the thread-scraper collaborator parameters.
type ScraperConfig struct {
	UserAgent   string        `mapstructure:"user_agent"`
	Delay       time.Duration `mapstructure:"delay"`
	MaxComments int           `mapstructure:"max_comments"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ReportConfig holds the markdown report output parameters.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Config is the root configuration structure for the entire application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Detection DetectionConfig `mapstructure:"detection"`
	Semantic  SemanticConfig  `mapstructure:"semantic"`
	Search    SearchConfig    `mapstructure:"search"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Report    ReportConfig    `mapstructure:"report"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when database is enabled")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required when database is enabled")
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}

	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("config: llm.provider %q is invalid; expected openai|ollama", c.LLM.Provider)
	}
	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("config: embedding.provider %q is invalid; expected openai|ollama", c.Embedding.Provider)
	}

	if c.Detection.AspectThreshold < 0 {
		return fmt.Errorf("config: detection.aspect_threshold must be >= 0, got %v", c.Detection.AspectThreshold)
	}
	if c.Detection.MinRelevant < 0 {
		return fmt.Errorf("config: detection.min_relevant must be >= 0, got %d", c.Detection.MinRelevant)
	}
	if c.Detection.Concurrency < 1 {
		return fmt.Errorf("config: detection.concurrency must be >= 1, got %d", c.Detection.Concurrency)
	}
	for kind, w := range c.Detection.AspectWeights {
		if w <= 0 {
			return fmt.Errorf("config: detection.aspect_weights[%s] must be > 0, got %v", kind, w)
		}
	}

	if c.Semantic.NoiseFloor < 0 || c.Semantic.NoiseFloor > 1 {
		return fmt.Errorf("config: semantic.noise_floor must be in [0, 1], got %v", c.Semantic.NoiseFloor)
	}
	if c.Semantic.NoisePenalty < 0 {
		return fmt.Errorf("config: semantic.noise_penalty must be >= 0, got %v", c.Semantic.NoisePenalty)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
