// Package config provides configuration loading, defaults, and validation
// for NicheSignal.
package config

import "time"

// Default value constants.  The threshold constants drifted across
// revisions of the scoring pipeline; they are deliberately configuration,
// not algorithm constants.
const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost = "localhost"
	DefaultDBPort = 5432
	DefaultDBName = "nichesignal"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "nichesignal"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultLLMProvider = "ollama"
	DefaultLLMBaseURL  = "http://localhost:11434"
	DefaultLLMModel    = "llama3"

	DefaultEmbeddingProvider = "ollama"
	DefaultEmbeddingBaseURL  = "http://localhost:11434"
	DefaultEmbeddingModel    = "nomic-embed-text"

	DefaultAspectThreshold   = 1.5
	DefaultSemanticThreshold = 0.42
	DefaultMinRelevant       = 10
	DefaultConcurrency       = 4

	DefaultNoiseFloor   = 0.40
	DefaultNoisePenalty = 0.40

	DefaultSearchMaxResults = 30
	DefaultUserAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36"
	DefaultScrapeDelay      = time.Second
	DefaultMaxComments      = 10

	DefaultReportDir = "reports"
)

// ApplyDefaults fills every zero-value field in cfg with the platform
// default.  Fields already set by the caller are left unchanged so that
// explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 24 * time.Hour
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = DefaultLLMProvider
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = DefaultLLMBaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultLLMModel
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 512
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = DefaultEmbeddingProvider
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = DefaultEmbeddingBaseURL
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = DefaultEmbeddingModel
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 30 * time.Second
	}
	if cfg.Embedding.CacheTTL == 0 {
		cfg.Embedding.CacheTTL = 24 * time.Hour
	}

	if cfg.Detection.AspectThreshold == 0 {
		cfg.Detection.AspectThreshold = DefaultAspectThreshold
	}
	if cfg.Detection.SemanticThreshold == 0 {
		cfg.Detection.SemanticThreshold = DefaultSemanticThreshold
	}
	if cfg.Detection.MinRelevant == 0 {
		cfg.Detection.MinRelevant = DefaultMinRelevant
	}
	if cfg.Detection.Concurrency == 0 {
		cfg.Detection.Concurrency = DefaultConcurrency
	}

	if cfg.Semantic.NoiseFloor == 0 {
		cfg.Semantic.NoiseFloor = DefaultNoiseFloor
	}
	if cfg.Semantic.NoisePenalty == 0 {
		cfg.Semantic.NoisePenalty = DefaultNoisePenalty
	}

	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultSearchMaxResults
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 30 * time.Second
	}
	if cfg.Search.UserAgent == "" {
		cfg.Search.UserAgent = DefaultUserAgent
	}

	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = DefaultUserAgent
	}
	if cfg.Scraper.Delay == 0 {
		cfg.Scraper.Delay = DefaultScrapeDelay
	}
	if cfg.Scraper.MaxComments == 0 {
		cfg.Scraper.MaxComments = DefaultMaxComments
	}
	if cfg.Scraper.Timeout == 0 {
		cfg.Scraper.Timeout = 30 * time.Second
	}

	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = DefaultReportDir
	}
}
