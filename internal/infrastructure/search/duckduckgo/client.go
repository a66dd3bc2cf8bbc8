// Package duckduckgo finds candidate Reddit threads through the DuckDuckGo
// HTML endpoint, which needs no API key.
package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher runs one query and returns up to max results.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]Result, error)
}

// Options configures the search client.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client queries the HTML endpoint and parses the result list.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     logging.Logger
}

// NewClient builds a search client.
func NewClient(opts Options, logger logging.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		logger:     logger,
	}
}

// Search fetches one page of results. Results whose link cannot be resolved
// are skipped rather than failing the whole page.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Result, error) {
	reqURL := c.baseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to build search request")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.New(errors.ErrCodeSourceRateLimited, "search engine rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeSearchFailed,
			fmt.Sprintf("search returned status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceParseError, "failed to parse search page")
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if max > 0 && len(results) >= max {
			return false
		}
		link := s.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		target := resolveRedirect(href)
		if target == "" {
			return true
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     target,
			Snippet: strings.TrimSpace(s.Find("a.result__snippet").First().Text()),
		})
		return true
	})

	c.logger.Debug("Search page parsed",
		logging.String("query", query),
		logging.Int("results", len(results)),
	)
	return results, nil
}

// resolveRedirect unwraps the engine's /l/?uddg=<target> redirect links.
// Direct links pass through unchanged.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}
