// Package bootstrap assembles the scoring stack from configuration. Both
// binaries share this wiring so provider selection stays in one place.
package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/NicheSignal/internal/application/pipeline"
	"github.com/turtacn/NicheSignal/internal/config"
	"github.com/turtacn/NicheSignal/internal/infrastructure/database/postgres"
	"github.com/turtacn/NicheSignal/internal/infrastructure/database/redis"
	"github.com/turtacn/NicheSignal/internal/infrastructure/llm/ollama"
	"github.com/turtacn/NicheSignal/internal/infrastructure/llm/openai"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/NicheSignal/internal/intelligence/aspects"
	"github.com/turtacn/NicheSignal/internal/intelligence/classifier"
	"github.com/turtacn/NicheSignal/internal/intelligence/semantic"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Components is the assembled scoring stack plus the optional stores.
type Components struct {
	Catalog    *aspects.Catalog
	Extractor  aspects.Extractor
	Embedder   semantic.Embedder
	Scorer     semantic.Scorer
	Classifier classifier.Classifier
	Pipeline   pipeline.Pipeline

	Pool  *pgxpool.Pool           // nil unless database.enabled
	Repo  postgres.ScanRepository // nil unless database.enabled
	Cache *redis.Client           // nil unless redis.enabled
}

// Close releases the store connections.
func (c *Components) Close() {
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// Build wires the full stack for one industry. Metrics may be nil for
// metric-free binaries.
func Build(ctx context.Context, cfg *config.Config, industry string, metrics prometheus.PipelineMetrics, logger logging.Logger) (*Components, error) {
	if industry == "" {
		return nil, errors.New(errors.ErrCodeValidation, "industry is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NopMetrics{}
	}

	catalog, err := aspects.NewCatalog(cfg.Detection.AspectWeights, cfg.Detection.ExtraNoisePatterns)
	if err != nil {
		return nil, err
	}
	extractor := aspects.NewExtractor(catalog, aspects.NewVaderScorer(), logger)

	c := &Components{Catalog: catalog, Extractor: extractor}

	embedder, err := buildEmbedder(cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		cache, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		c.Cache = cache
		embedder, err = redis.NewCachedEmbedder(cache, embedder, redis.EmbedderCacheOptions{
			Model:     cfg.Embedding.Model,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Embedding.CacheTTL,
		}, metrics, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
	}
	c.Embedder = embedder

	scorer, err := semantic.NewScorer(embedder, industry, semantic.Config{
		NoiseFloor:   cfg.Semantic.NoiseFloor,
		NoisePenalty: cfg.Semantic.NoisePenalty,
	}, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Scorer = scorer

	model, err := buildCompletionModel(cfg.LLM, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	clf, err := classifier.NewClassifier(model, industry, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Classifier = clf

	pl, err := pipeline.New(extractor, catalog, scorer, clf, pipeline.Options{
		AspectThreshold:   cfg.Detection.AspectThreshold,
		SemanticThreshold: cfg.Detection.SemanticThreshold,
		MinRelevant:       cfg.Detection.MinRelevant,
		Concurrency:       cfg.Detection.Concurrency,
	}, metrics, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Pipeline = pl

	if cfg.Database.Enabled {
		dsn := postgres.DSN(cfg.Database)
		if cfg.Database.MigrationPath != "" {
			if err := postgres.RunMigrations(dsn, cfg.Database.MigrationPath); err != nil {
				c.Close()
				return nil, err
			}
		}
		pool, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Pool = pool
		c.Repo = postgres.NewScanRepository(pool, logger)
	}

	return c, nil
}

func buildEmbedder(cfg config.EmbeddingConfig, logger logging.Logger) (semantic.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewEmbedder(openai.Options{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
	case "", "ollama":
		return ollama.NewEmbedder(ollama.Options{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, logger), nil
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown embedding provider: "+cfg.Provider)
	}
}

func buildCompletionModel(cfg config.LLMConfig, logger logging.Logger) (classifier.CompletionModel, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewCompletionClient(openai.Options{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Timeout:   cfg.Timeout,
			MaxTokens: cfg.MaxTokens,
		}, logger)
	case "", "ollama":
		return ollama.NewCompletionClient(ollama.Options{
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Timeout:   cfg.Timeout,
			MaxTokens: cfg.MaxTokens,
		}, logger), nil
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown llm provider: "+cfg.Provider)
	}
}
