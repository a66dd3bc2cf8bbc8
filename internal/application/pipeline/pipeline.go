// Package pipeline orchestrates per-post scoring: aspect extraction,
// aggregate scoring, semantic relevance, and classification with its
// fallback, plus the batch worker pool and the relevance gate.
package pipeline

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/intelligence/aspects"
	"github.com/turtacn/NicheSignal/internal/intelligence/classifier"
	"github.com/turtacn/NicheSignal/internal/intelligence/semantic"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Options holds the pipeline tunables.
type Options struct {
	// AspectThreshold and SemanticThreshold drive the relevance gate.
	AspectThreshold   float64
	SemanticThreshold float64

	// MinRelevant is the count beneath which a broader search round is
	// warranted.
	MinRelevant int

	// Concurrency caps the batch worker pool.
	Concurrency int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		AspectThreshold:   1.5,
		SemanticThreshold: 0.42,
		MinRelevant:       10,
		Concurrency:       4,
	}
}

// Pipeline scores posts end to end.
type Pipeline interface {
	// ScorePost scores one post: aspect detection, aggregate score,
	// semantic relevance, and classification.  Classifier failures degrade
	// to the heuristic fallback; embedding failures propagate.
	ScorePost(ctx context.Context, p post.Post) (*post.ScoredPost, error)

	// ScoreBatch scores posts concurrently and returns them sorted by
	// aspect score descending.  A cancelled context loses only the posts
	// whose verdicts were not yet produced.
	ScoreBatch(ctx context.Context, posts []post.Post) ([]*post.ScoredPost, error)

	// Relevant filters scored posts through the relevance gate.
	Relevant(scored []*post.ScoredPost) []*post.ScoredPost

	// NeedsBroaderSearch reports whether the relevant set is too small and
	// the caller should run another, broader search round.
	NeedsBroaderSearch(relevant []*post.ScoredPost) bool
}

type pipelineImpl struct {
	extractor aspects.Extractor
	catalog   *aspects.Catalog
	scorer    semantic.Scorer
	clf       classifier.Classifier
	opts      Options
	metrics   prometheus.PipelineMetrics
	logger    logging.Logger
}

// New constructs the pipeline.  Extractor, catalog, scorer, and classifier
// are required; metrics and logger default to nops.
func New(
	extractor aspects.Extractor,
	catalog *aspects.Catalog,
	scorer semantic.Scorer,
	clf classifier.Classifier,
	opts Options,
	metrics prometheus.PipelineMetrics,
	logger logging.Logger,
) (Pipeline, error) {
	if extractor == nil || catalog == nil {
		return nil, errors.Validation("extractor and catalog are required")
	}
	if scorer == nil {
		return nil, errors.Validation("semantic scorer is required")
	}
	if clf == nil {
		return nil, errors.Validation("classifier is required")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultOptions().Concurrency
	}
	if metrics == nil {
		metrics = prometheus.NopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &pipelineImpl{
		extractor: extractor,
		catalog:   catalog,
		scorer:    scorer,
		clf:       clf,
		opts:      opts,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

func (pl *pipelineImpl) ScorePost(ctx context.Context, p post.Post) (*post.ScoredPost, error) {
	start := time.Now()

	text := p.Text()
	matches := pl.extractor.Detect(text)
	aspectScore := pl.catalog.Score(matches)

	bundle := post.ScoreBundle{
		AspectScore: aspectScore,
		Aspects:     matches,
	}

	// Semantic scoring only earns its embedding call when there is some
	// aspect evidence; a zero aspect score can never pass the gate anyway.
	if aspectScore > 0 {
		res, err := pl.scorer.Score(ctx, text)
		if err != nil {
			return nil, err
		}
		bundle.SemanticScore = res.Score
		bundle.BestAnchor = res.Label
	}

	verdict, err := pl.clf.Classify(ctx, p, matches)
	if err != nil {
		pl.logger.Warn("classifier failed, applying fallback",
			logging.String("post_id", p.ID),
			logging.Err(err))
		verdict = classifier.FallbackVerdict(matches, err.Error())
	}

	pl.metrics.PostScored(time.Since(start))
	pl.metrics.VerdictRecorded(string(verdict.Classification), verdict.Fallback)

	return &post.ScoredPost{Post: p, Scores: bundle, Verdict: verdict}, nil
}

func (pl *pipelineImpl) ScoreBatch(ctx context.Context, posts []post.Post) ([]*post.ScoredPost, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	scored := make([]*post.ScoredPost, len(posts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pl.opts.Concurrency)
	for i, p := range posts {
		i, p := i, p
		g.Go(func() error {
			sp, err := pl.ScorePost(ctx, p)
			if err != nil {
				return err
			}
			scored[i] = sp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Keep the verdicts that were produced before the failure.
		partial := scored[:0]
		for _, sp := range scored {
			if sp != nil {
				partial = append(partial, sp)
			}
		}
		sortByAspectScore(partial)
		return partial, err
	}

	sortByAspectScore(scored)
	return scored, nil
}

func (pl *pipelineImpl) Relevant(scored []*post.ScoredPost) []*post.ScoredPost {
	var out []*post.ScoredPost
	for _, sp := range scored {
		if sp.Scores.RelevantAt(pl.opts.AspectThreshold, pl.opts.SemanticThreshold) {
			out = append(out, sp)
		}
	}
	return out
}

func (pl *pipelineImpl) NeedsBroaderSearch(relevant []*post.ScoredPost) bool {
	return len(relevant) < pl.opts.MinRelevant
}

// sortByAspectScore orders scored posts by aspect score descending, URL as
// the tiebreak so output stays deterministic.
func sortByAspectScore(scored []*post.ScoredPost) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Scores.AspectScore != scored[j].Scores.AspectScore {
			return scored[i].Scores.AspectScore > scored[j].Scores.AspectScore
		}
		return scored[i].Post.URL < scored[j].Post.URL
	})
}
