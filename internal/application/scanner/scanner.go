// Package scanner runs the end-to-end detection flow: thread discovery,
// scraping, batch scoring, the broaden-search round, report generation, and
// optional persistence.
package scanner

import (
	"context"

	"github.com/turtacn/NicheSignal/internal/application/pipeline"
	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/domain/scan"
	"github.com/turtacn/NicheSignal/internal/infrastructure/database/postgres"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/internal/infrastructure/scraper/reddit"
	"github.com/turtacn/NicheSignal/internal/infrastructure/search/duckduckgo"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// ThreadFinder discovers candidate threads for an industry.
type ThreadFinder interface {
	FindThreads(ctx context.Context, industry string) ([]duckduckgo.Result, error)
	Broaden(ctx context.Context, industry string, seen map[string]bool) ([]duckduckgo.Result, error)
}

// ReportWriter renders and stores a findings report, returning its path.
type ReportWriter interface {
	Write(industry string, findings []*post.ScoredPost) (string, error)
}

// Scanner wires the collaborators of one detection run.
type Scanner struct {
	finder   ThreadFinder
	scraper  reddit.ThreadScraper
	pipeline pipeline.Pipeline
	reporter ReportWriter
	repo     postgres.ScanRepository // nil when persistence is disabled
	logger   logging.Logger
}

// New builds a Scanner. The repository may be nil.
func New(
	finder ThreadFinder,
	scraper reddit.ThreadScraper,
	pl pipeline.Pipeline,
	reporter ReportWriter,
	repo postgres.ScanRepository,
	logger logging.Logger,
) (*Scanner, error) {
	if finder == nil || scraper == nil || pl == nil || reporter == nil {
		return nil, errors.New(errors.ErrCodeValidation, "finder, scraper, pipeline, and reporter are required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Scanner{
		finder:   finder,
		scraper:  scraper,
		pipeline: pl,
		reporter: reporter,
		repo:     repo,
		logger:   logger,
	}, nil
}

// Outcome is the result of one run.
type Outcome struct {
	Run      *scan.Run
	Relevant []*post.ScoredPost
}

// Run executes one detection run for an industry. When the first search
// round yields too few relevant threads, a second round with pairwise
// keyword queries widens the candidate set and the merged results are
// refiltered through the same relevance gate.
func (s *Scanner) Run(ctx context.Context, industry string, limit int) (*Outcome, error) {
	run := scan.NewRun(industry, limit)

	results, err := s.finder.FindThreads(ctx, industry)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Thread discovery finished",
		logging.String("industry", industry),
		logging.Int("threads", len(results)),
	)

	posts := s.scrapeAll(ctx, results)
	scored, err := s.pipeline.ScoreBatch(ctx, posts)
	if err != nil {
		// Partial results survive batch errors; keep what we have.
		s.logger.Warn("Batch scoring incomplete", logging.Err(err))
	}
	relevant := s.pipeline.Relevant(scored)

	broadened := false
	if s.pipeline.NeedsBroaderSearch(relevant) {
		broadened = true
		s.logger.Info("Too few relevant threads, broadening search",
			logging.Int("relevant", len(relevant)),
		)

		seen := make(map[string]bool, len(results))
		for _, r := range results {
			seen[r.URL] = true
		}
		extra, err := s.finder.Broaden(ctx, industry, seen)
		if err != nil {
			return nil, err
		}

		extraScored, err := s.pipeline.ScoreBatch(ctx, s.scrapeAll(ctx, extra))
		if err != nil {
			s.logger.Warn("Broaden-round scoring incomplete", logging.Err(err))
		}
		scored = append(scored, extraScored...)
		relevant = s.pipeline.Relevant(scored)
	}

	reportPath, err := s.reporter.Write(industry, relevant)
	if err != nil {
		return nil, err
	}

	run.Finish(len(scored), len(relevant), broadened, reportPath)

	if s.repo != nil {
		verdicts := make([]*scan.VerdictRecord, 0, len(relevant))
		for _, sp := range relevant {
			if v := scan.RecordVerdict(run.ID, sp); v != nil {
				verdicts = append(verdicts, v)
			}
		}
		if err := s.repo.SaveRun(ctx, run, verdicts); err != nil {
			s.logger.Error("Failed to persist scan run", logging.Err(err))
		}
	}

	s.logger.Info("Scan finished",
		logging.String("run_id", run.ID.String()),
		logging.Int("total", run.TotalPosts),
		logging.Int("relevant", run.Relevant),
		logging.Bool("broadened", run.Broadened),
		logging.String("report", reportPath),
	)
	return &Outcome{Run: run, Relevant: relevant}, nil
}

// scrapeAll fetches threads sequentially so the per-request delay is
// honored. Failed threads are skipped.
func (s *Scanner) scrapeAll(ctx context.Context, results []duckduckgo.Result) []post.Post {
	posts := make([]post.Post, 0, len(results))
	for _, r := range results {
		if ctx.Err() != nil {
			break
		}
		p, err := s.scraper.Scrape(ctx, r.URL)
		if err != nil {
			s.logger.Warn("Skipping unreachable thread",
				logging.String("url", r.URL),
				logging.Err(err),
			)
			continue
		}
		if p.IsEmpty() {
			continue
		}
		posts = append(posts, *p)
	}
	return posts
}
