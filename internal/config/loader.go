package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "NICHE"

// envKeys enumerates every scalar configuration key so viper can resolve
// NICHE_* environment variables during Unmarshal.  AutomaticEnv alone does
// not surface variables for keys absent from the config file.
var envKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
	"database.enabled", "database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns", "database.min_conns",
	"database.conn_max_lifetime", "database.migration_path",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.default_ttl", "redis.key_prefix",
	"log.level", "log.format",
	"llm.provider", "llm.base_url", "llm.api_key", "llm.model", "llm.timeout", "llm.max_tokens",
	"embedding.provider", "embedding.base_url", "embedding.api_key", "embedding.model",
	"embedding.timeout", "embedding.cache_ttl",
	"detection.industry", "detection.aspect_threshold", "detection.semantic_threshold", "detection.min_relevant", "detection.concurrency",
	"semantic.noise_floor", "semantic.noise_penalty",
	"search.max_results", "search.timeout", "search.user_agent",
	"scraper.user_agent", "scraper.delay", "scraper.max_comments", "scraper.timeout",
	"report.output_dir",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads configuration from the given file path, overlays environment
// variables with the NICHE_ prefix, applies defaults, and validates the
// result.  An empty path loads from environment and defaults only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables and defaults
// only, with no configuration file.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// MustLoad is Load, except it panics on error.  Intended for main functions
// where a bad configuration should abort startup.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Watch re-reads the configuration file whenever it changes on disk and
// invokes onChange with the freshly-loaded value.  Reload errors are
// reported through onError and the previous configuration stays in effect.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	if path == "" {
		return fmt.Errorf("config: watch requires a file path")
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			if onError != nil {
				onError(fmt.Errorf("config: unmarshal on reload: %w", err))
			}
			return
		}
		ApplyDefaults(&cfg)
		if err := cfg.Validate(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onChange != nil {
			onChange(&cfg)
		}
	})
	v.WatchConfig()
	return nil
}
