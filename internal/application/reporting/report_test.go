package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/NicheSignal/internal/domain/post"
)

func sampleFindings() []*post.ScoredPost {
	return []*post.ScoredPost{
		{
			Post: post.Post{Title: "Low scorer", URL: "https://old.reddit.com/r/x/1"},
			Scores: post.ScoreBundle{
				AspectScore: 1.6,
				Aspects: []post.AspectMatch{
					{Kind: post.KindManualProcess, Sentence: "I track it in excel", Confidence: 0.65},
				},
			},
			Verdict: &post.Verdict{Classification: post.ClassWeakOpportunity, Confidence: 0.6, Reasoning: "maybe"},
		},
		{
			Post: post.Post{Title: "High scorer", URL: "https://old.reddit.com/r/x/2"},
			Scores: post.ScoreBundle{
				AspectScore:   3.2,
				SemanticScore: 0.61,
				Aspects: []post.AspectMatch{
					{Kind: post.KindSeekingAlternative, Sentence: "Is there an app?", Confidence: 0.8, Sentiment: 0.1},
				},
			},
			Verdict: &post.Verdict{Classification: post.ClassStrongOpportunity, Confidence: 0.9, Reasoning: "explicit request"},
		},
	}
}

func TestRender(t *testing.T) {
	w := NewWriter(t.TempDir())
	w.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	md := w.Render("beekeeping", sampleFindings())

	assert.Contains(t, md, "# Niche Signal Report: beekeeping")
	assert.Contains(t, md, "Found 2 relevant threads.")
	assert.Contains(t, md, "STRONG_OPPORTUNITY")
	assert.Contains(t, md, "seeking alternative")

	// Sorted by aspect score descending.
	assert.Less(t, strings.Index(md, "High scorer"), strings.Index(md, "Low scorer"))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	path, err := w.Write("bee keeping", sampleFindings())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "report_bee_keeping_20260301_093000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "High scorer")
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewWriter(dir)

	_, err := w.Write("plumbing", nil)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestRenderEmptyFindings(t *testing.T) {
	w := NewWriter(t.TempDir())
	md := w.Render("plumbing", nil)
	assert.Contains(t, md, "Found 0 relevant threads.")
}
