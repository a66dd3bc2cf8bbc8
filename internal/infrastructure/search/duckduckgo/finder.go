package duckduckgo

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/prometheus"
)

// Finder fans one thread-discovery request out into per-category queries.
// A failed category is logged and skipped; FindThreads only errors when the
// context is cancelled.
type Finder struct {
	searcher Searcher
	keywords map[string][]string
	limit    int
	metrics  prometheus.PipelineMetrics
	logger   logging.Logger
}

// NewFinder builds a Finder. Empty keywords fall back to the defaults and a
// non-positive limit means 10 results per query.
func NewFinder(searcher Searcher, keywords map[string][]string, limit int, metrics prometheus.PipelineMetrics, logger logging.Logger) *Finder {
	if len(keywords) == 0 {
		keywords = DefaultPainKeywords()
	}
	if limit <= 0 {
		limit = 10
	}
	if metrics == nil {
		metrics = prometheus.NopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Finder{
		searcher: searcher,
		keywords: keywords,
		limit:    limit,
		metrics:  metrics,
		logger:   logger,
	}
}

// FindThreads runs one query per keyword category in parallel and returns
// the URL-deduplicated union, ordered by URL for determinism.
func (f *Finder) FindThreads(ctx context.Context, industry string) ([]Result, error) {
	queries := make([]string, 0, len(f.keywords))
	for _, kws := range f.keywords {
		queries = append(queries, CategoryQuery(industry, kws))
	}
	return f.runQueries(ctx, queries, nil)
}

// Broaden runs pairwise keyword-combination queries, skipping URLs already
// in seen. Used when the first round yields too few relevant threads.
func (f *Finder) Broaden(ctx context.Context, industry string, seen map[string]bool) ([]Result, error) {
	var queries []string
	for _, kws := range f.keywords {
		for _, pair := range Pairs(kws) {
			queries = append(queries, CategoryQuery(industry, pair[:]))
		}
	}
	return f.runQueries(ctx, queries, seen)
}

func (f *Finder) runQueries(ctx context.Context, queries []string, seen map[string]bool) ([]Result, error) {
	var (
		mu      sync.Mutex
		results []Result
	)
	dedupe := make(map[string]bool, len(seen))
	for url := range seen {
		dedupe[url] = true
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, query := range queries {
		query := query
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hits, err := f.searcher.Search(ctx, query, f.limit)
			if err != nil {
				f.logger.Warn("Search query failed",
					logging.String("query", query),
					logging.Err(err),
				)
				return nil
			}
			mu.Lock()
			for _, h := range hits {
				if h.URL == "" || dedupe[h.URL] {
					continue
				}
				dedupe[h.URL] = true
				results = append(results, h)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].URL < results[j].URL })
	f.metrics.SearchResults(len(results))
	return results, nil
}
