package semantic

import (
	"context"
	"sync"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Config holds the signal-vs-noise tunables.
type Config struct {
	// NoiseFloor is the similarity above which a noise anchor match is
	// considered credible.
	NoiseFloor float64

	// NoisePenalty is subtracted from the score when noise dominates.
	NoisePenalty float64
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{NoiseFloor: 0.40, NoisePenalty: 0.40}
}

// Result is the outcome of scoring one text.
type Result struct {
	// Score is the best positive-anchor similarity, minus the noise penalty
	// when noise dominates.  Not clamped; may be negative.
	Score float64

	// Label names the positive anchor that produced the best similarity.
	Label string

	// NoiseScore is the maximum similarity across noise anchors.
	NoiseScore float64

	// Penalized reports whether the noise penalty was applied.
	Penalized bool
}

// Scorer computes semantic relevance of post text against the anchor sets
// for one industry.
type Scorer interface {
	// Score embeds text and compares it to the anchors.  Embedding failures
	// propagate; there is no safe fallback similarity value.
	Score(ctx context.Context, text string) (*Result, error)
}

type anchorVector struct {
	label  string
	vector []float32
}

type scorerImpl struct {
	embedder Embedder
	industry string
	cfg      Config
	logger   logging.Logger

	// Anchor vectors are embedded on first use and memoized on success
	// only, so a transient embedder failure does not pin the scorer to
	// the error.
	mu        sync.Mutex
	positives []anchorVector
	negatives []anchorVector
}

// NewScorer constructs a scorer for the given industry.  The embedder is a
// required collaborator.
func NewScorer(embedder Embedder, industry string, cfg Config, logger logging.Logger) (Scorer, error) {
	if embedder == nil {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "embedder is required")
	}
	if cfg.NoiseFloor == 0 && cfg.NoisePenalty == 0 {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &scorerImpl{
		embedder: embedder,
		industry: industry,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// embedAnchors materializes the anchor vectors on first use so that scorer
// construction stays cheap and offline.  A failed attempt leaves the cache
// empty; the next call retries.
func (s *scorerImpl) embedAnchors(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.positives != nil {
		return nil
	}

	positives, err := s.embedSet(ctx, positiveAnchors(s.industry))
	if err != nil {
		return err
	}
	negatives, err := s.embedSet(ctx, negativeAnchors(s.industry))
	if err != nil {
		return err
	}
	s.positives, s.negatives = positives, negatives
	return nil
}

func (s *scorerImpl) embedSet(ctx context.Context, anchors []Anchor) ([]anchorVector, error) {
	out := make([]anchorVector, 0, len(anchors))
	for _, a := range anchors {
		vec, err := s.embedder.Embed(ctx, a.Phrase)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeEmbeddingFailed,
				"embedding anchor phrase").WithDetail(a.Label)
		}
		if len(vec) == 0 {
			return nil, errors.New(errors.ErrCodeEmbeddingEmpty,
				"anchor embedding is empty").WithDetail(a.Label)
		}
		out = append(out, anchorVector{label: a.Label, vector: vec})
	}
	return out, nil
}

func (s *scorerImpl) Score(ctx context.Context, text string) (*Result, error) {
	if err := s.embedAnchors(ctx); err != nil {
		return nil, err
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingFailed, "embedding post text")
	}
	if len(vec) == 0 {
		return nil, errors.New(errors.ErrCodeEmbeddingEmpty, "post embedding is empty")
	}

	var (
		bestPositive float64
		bestLabel    string
	)
	for i, a := range s.positives {
		sim := CosineSimilarity(vec, a.vector)
		if i == 0 || sim > bestPositive {
			bestPositive = sim
			bestLabel = a.label
		}
	}

	var maxNoise float64
	for _, a := range s.negatives {
		if sim := CosineSimilarity(vec, a.vector); sim > maxNoise {
			maxNoise = sim
		}
	}

	result := &Result{Score: bestPositive, Label: bestLabel, NoiseScore: maxNoise}

	// Noise dominance: a credible noise match at least as strong as the
	// best positive match pushes the score down, possibly below zero.
	if maxNoise > s.cfg.NoiseFloor && maxNoise >= bestPositive {
		result.Score -= s.cfg.NoisePenalty
		result.Penalized = true
		s.logger.Debug("noise penalty applied",
			logging.Float64("noise", maxNoise),
			logging.Float64("best_positive", bestPositive))
	}

	return result, nil
}
