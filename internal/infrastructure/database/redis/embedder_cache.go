package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/NicheSignal/internal/intelligence/semantic"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// CachedEmbedder caches vectors keyed by model and text hash, delegating
// misses to the wrapped embedder. Cache failures degrade to the inner
// embedder instead of failing the request.
type CachedEmbedder struct {
	client  *Client
	inner   semantic.Embedder
	model   string
	prefix  string
	ttl     time.Duration
	metrics prometheus.PipelineMetrics
	logger  logging.Logger
}

// EmbedderCacheOptions configures a CachedEmbedder.
type EmbedderCacheOptions struct {
	Model     string
	KeyPrefix string
	TTL       time.Duration
}

// NewCachedEmbedder wraps inner with a Redis vector cache.
func NewCachedEmbedder(client *Client, inner semantic.Embedder, opts EmbedderCacheOptions, metrics prometheus.PipelineMetrics, logger logging.Logger) (*CachedEmbedder, error) {
	if client == nil {
		return nil, errors.New(errors.ErrCodeCacheError, "redis client is required")
	}
	if inner == nil {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "inner embedder is required")
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "niche:"
	}
	if opts.TTL == 0 {
		opts.TTL = 24 * time.Hour
	}
	if metrics == nil {
		metrics = prometheus.NopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedEmbedder{
		client:  client,
		inner:   inner,
		model:   opts.Model,
		prefix:  opts.KeyPrefix,
		ttl:     opts.TTL,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Embed returns the cached vector for text when present, otherwise embeds
// through the inner embedder and stores the result.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := e.key(text)

	data, err := e.client.Get(ctx, key).Bytes()
	if err == nil {
		var vec []float32
		if uerr := json.Unmarshal(data, &vec); uerr == nil && len(vec) > 0 {
			e.metrics.EmbeddingCacheHit()
			return vec, nil
		}
		// Corrupt entry, treat as a miss and overwrite below.
		e.logger.Warn("Discarding corrupt cached embedding", logging.String("key", key))
	} else if err != goredis.Nil {
		e.logger.Warn("Embedding cache read failed", logging.Err(err))
	}
	e.metrics.EmbeddingCacheMiss()

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, merr := json.Marshal(vec); merr == nil {
		if serr := e.client.Set(ctx, key, data, e.ttl).Err(); serr != nil {
			e.logger.Warn("Embedding cache write failed", logging.Err(serr))
		}
	}
	return vec, nil
}

func (e *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(e.model + "\x00" + text))
	return e.prefix + "emb:" + e.model + ":" + hex.EncodeToString(sum[:16])
}
