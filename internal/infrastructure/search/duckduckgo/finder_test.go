package duckduckgo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/NicheSignal/pkg/errors"
)

type stubSearcher struct {
	mu      sync.Mutex
	queries []string
	results map[string][]Result
	err     error
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) ([]Result, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

func TestCategoryQuery(t *testing.T) {
	q := CategoryQuery("logistics", []string{"spreadsheet", "by hand"})
	assert.Equal(t, `site:reddit.com "logistics" ("spreadsheet" OR "by hand")`, q)
}

func TestPairs(t *testing.T) {
	pairs := Pairs([]string{"c", "a", "b"})
	assert.Equal(t, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}, pairs)
	assert.Empty(t, Pairs([]string{"solo"}))
}

func TestFindThreadsDeduplicates(t *testing.T) {
	keywords := map[string][]string{
		"frustration":  {"frustrating"},
		"seeking_tool": {"is there a tool"},
	}
	shared := Result{Title: "dup", URL: "https://www.reddit.com/r/x/comments/1/"}
	searcher := &stubSearcher{results: map[string][]Result{
		CategoryQuery("logistics", keywords["frustration"]): {
			shared,
			{Title: "a", URL: "https://www.reddit.com/r/x/comments/2/"},
		},
		CategoryQuery("logistics", keywords["seeking_tool"]): {
			shared,
			{Title: "b", URL: "https://www.reddit.com/r/x/comments/3/"},
		},
	}}

	f := NewFinder(searcher, keywords, 10, nil, nil)
	results, err := f.FindThreads(context.Background(), "logistics")
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Len(t, searcher.queries, 2)
	// Sorted by URL.
	assert.Equal(t, "https://www.reddit.com/r/x/comments/1/", results[0].URL)
	assert.Equal(t, "https://www.reddit.com/r/x/comments/3/", results[2].URL)
}

func TestFindThreadsToleratesFailedCategory(t *testing.T) {
	searcher := &stubSearcher{err: errors.New(errors.ErrCodeSearchFailed, "engine down")}
	f := NewFinder(searcher, map[string][]string{"frustration": {"hate"}}, 10, nil, nil)

	results, err := f.FindThreads(context.Background(), "logistics")
	require.NoError(t, err, "category failures are skipped, not fatal")
	assert.Empty(t, results)
}

func TestBroadenSkipsSeenAndUsesPairs(t *testing.T) {
	keywords := map[string][]string{"frustration": {"hate", "annoying", "painful"}}
	seenURL := "https://www.reddit.com/r/x/comments/seen/"

	searcher := &stubSearcher{results: map[string][]Result{
		CategoryQuery("logistics", []string{"annoying", "hate"}): {
			{URL: seenURL},
			{URL: "https://www.reddit.com/r/x/comments/new/"},
		},
	}}

	f := NewFinder(searcher, keywords, 10, nil, nil)
	results, err := f.Broaden(context.Background(), "logistics", map[string]bool{seenURL: true})
	require.NoError(t, err)

	// 3 keywords yield 3 pair queries.
	assert.Len(t, searcher.queries, 3)
	require.Len(t, results, 1)
	assert.Equal(t, "https://www.reddit.com/r/x/comments/new/", results[0].URL)
}

func TestNewFinderDefaults(t *testing.T) {
	f := NewFinder(&stubSearcher{}, nil, 0, nil, nil)
	assert.Equal(t, DefaultPainKeywords(), f.keywords)
	assert.Equal(t, 10, f.limit)
}
