// Package reddit fetches thread content through old.reddit.com, whose
// server-rendered markup stays parseable without a browser.
package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// ThreadScraper fetches one thread as a post.
type ThreadScraper interface {
	Scrape(ctx context.Context, url string) (*post.Post, error)
}

// Options configures the scraper.
type Options struct {
	UserAgent   string
	Delay       time.Duration // pause before each request, politeness
	MaxComments int
	Timeout     time.Duration
}

// Scraper is the goquery-backed ThreadScraper.
type Scraper struct {
	httpClient  *http.Client
	userAgent   string
	delay       time.Duration
	maxComments int
	logger      logging.Logger
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewScraper builds a Scraper.
func NewScraper(opts Options, logger logging.Logger) *Scraper {
	if opts.MaxComments <= 0 {
		opts.MaxComments = 10
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Scraper{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		userAgent:   opts.UserAgent,
		delay:       opts.Delay,
		maxComments: opts.MaxComments,
		logger:      logger,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// Scrape fetches url and extracts title, post body and the top comments.
func (s *Scraper) Scrape(ctx context.Context, url string) (*post.Post, error) {
	url = OldRedditURL(url)

	if s.delay > 0 {
		if err := s.sleep(ctx, s.delay); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeScrapeFailed, "scrape cancelled")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeScrapeFailed, "failed to build scrape request")
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeScrapeFailed, "scrape request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.New(errors.ErrCodeSourceRateLimited, "reddit rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeScrapeFailed,
			fmt.Sprintf("thread fetch returned status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceParseError, "failed to parse thread page")
	}

	p := s.extract(doc, url)
	s.logger.Debug("Scraped thread",
		logging.String("url", url),
		logging.String("title", p.Title),
		logging.Int("comments", len(p.Comments)),
	)
	return p, nil
}

func (s *Scraper) extract(doc *goquery.Document, url string) *post.Post {
	title := strings.TrimSpace(doc.Find("a.title").First().Text())
	if title == "" {
		title = "No Title"
	}

	body := strings.TrimSpace(doc.Find("div.usertext-body").First().Text())

	var comments []string
	doc.Find("div.commentarea div.entry").EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		if len(comments) >= s.maxComments {
			return false
		}
		text := strings.TrimSpace(entry.Find("div.usertext-body").First().Text())
		if text != "" {
			comments = append(comments, text)
		}
		return true
	})

	return &post.Post{
		Title:        title,
		Body:         body,
		URL:          url,
		Comments:     comments,
		CommentCount: len(comments),
		FetchedAt:    s.now().UTC(),
	}
}

// OldRedditURL rewrites any reddit host to old.reddit.com. Non-reddit URLs
// pass through unchanged.
func OldRedditURL(url string) string {
	switch {
	case strings.Contains(url, "old.reddit.com"):
		return url
	case strings.Contains(url, "www.reddit.com"):
		return strings.Replace(url, "www.reddit.com", "old.reddit.com", 1)
	case strings.Contains(url, "reddit.com"):
		return strings.Replace(url, "reddit.com", "old.reddit.com", 1)
	}
	return url
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
