// Package prometheus exposes pipeline metrics through a small interface so
// the scoring core never depends on the metrics backend directly.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records the observable events of a scoring run.
// Implementations must be safe for concurrent use.
type PipelineMetrics interface {
	// PostScored records one fully scored post and its end-to-end latency.
	PostScored(d time.Duration)

	// VerdictRecorded counts a verdict by classification label; fallback
	// verdicts are counted separately as well.
	VerdictRecorded(classification string, fallback bool)

	// EmbeddingCacheHit / EmbeddingCacheMiss track vector cache efficiency.
	EmbeddingCacheHit()
	EmbeddingCacheMiss()

	// SearchResults records how many URLs one search round produced.
	SearchResults(n int)
}

type pipelineMetrics struct {
	scoringDuration prometheus.Histogram
	postsScored     prometheus.Counter
	verdicts        *prometheus.CounterVec
	fallbacks       prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	searchResults   prometheus.Histogram
}

var scoringBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}

// NewPipelineMetrics registers the pipeline metrics on the given registry
// and returns the recording handle.
func NewPipelineMetrics(reg prometheus.Registerer) PipelineMetrics {
	m := &pipelineMetrics{
		scoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nichesignal_post_scoring_duration_seconds",
			Help:    "End-to-end scoring latency per post",
			Buckets: scoringBuckets,
		}),
		postsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nichesignal_posts_scored_total",
			Help: "Posts fully scored",
		}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nichesignal_verdicts_total",
			Help: "Verdicts by classification label",
		}, []string{"classification"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nichesignal_fallback_verdicts_total",
			Help: "Verdicts produced by the heuristic fallback",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nichesignal_embedding_cache_hits_total",
			Help: "Embedding vector cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nichesignal_embedding_cache_misses_total",
			Help: "Embedding vector cache misses",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nichesignal_search_results_per_round",
			Help:    "URLs produced per search round",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
		}),
	}

	reg.MustRegister(
		m.scoringDuration, m.postsScored, m.verdicts, m.fallbacks,
		m.cacheHits, m.cacheMisses, m.searchResults,
	)
	return m
}

func (m *pipelineMetrics) PostScored(d time.Duration) {
	m.postsScored.Inc()
	m.scoringDuration.Observe(d.Seconds())
}

func (m *pipelineMetrics) VerdictRecorded(classification string, fallback bool) {
	m.verdicts.WithLabelValues(classification).Inc()
	if fallback {
		m.fallbacks.Inc()
	}
}

func (m *pipelineMetrics) EmbeddingCacheHit()  { m.cacheHits.Inc() }
func (m *pipelineMetrics) EmbeddingCacheMiss() { m.cacheMisses.Inc() }

func (m *pipelineMetrics) SearchResults(n int) {
	m.searchResults.Observe(float64(n))
}

// NopMetrics discards every observation.  Used by the CLI and by tests.
type NopMetrics struct{}

func (NopMetrics) PostScored(time.Duration)     {}
func (NopMetrics) VerdictRecorded(string, bool) {}
func (NopMetrics) EmbeddingCacheHit()           {}
func (NopMetrics) EmbeddingCacheMiss()          {}
func (NopMetrics) SearchResults(int)            {}
