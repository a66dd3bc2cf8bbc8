// Package reporting renders scan findings into markdown report files.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Writer renders findings to markdown and writes one report file per run.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a report writer rooted at dir.  The directory is
// created on first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Write renders the findings and writes them to a timestamped file under
// the report directory.  Returns the file path.
func (w *Writer) Write(industry string, findings []*post.ScoredPost) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "creating report directory")
	}

	name := fmt.Sprintf("report_%s_%s.md",
		strings.ReplaceAll(industry, " ", "_"),
		w.now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	if err := os.WriteFile(path, []byte(w.Render(industry, findings)), 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "writing report file")
	}
	return path, nil
}

// Render produces the markdown body for a set of findings, sorted by aspect
// score descending.
func (w *Writer) Render(industry string, findings []*post.ScoredPost) string {
	sorted := make([]*post.ScoredPost, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Scores.AspectScore > sorted[j].Scores.AspectScore
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# Niche Signal Report: %s\n\n", industry)
	fmt.Fprintf(&b, "**Date**: %s\n\n", w.now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Executive Summary\n")
	fmt.Fprintf(&b, "Found %d relevant threads.\n\n", len(sorted))

	b.WriteString("## Detailed Findings\n\n")
	for _, sp := range sorted {
		title := sp.Post.Title
		if title == "" {
			title = "No Title"
		}
		fmt.Fprintf(&b, "### %s\n", title)
		fmt.Fprintf(&b, "**Aspect Score**: %.2f | **Semantic**: %.2f | [Source Link](%s)\n\n",
			sp.Scores.AspectScore, sp.Scores.SemanticScore, sp.Post.URL)

		if v := sp.Verdict; v != nil {
			fmt.Fprintf(&b, "**Verdict**: %s (confidence %.2f): %s\n\n",
				v.Classification, v.Confidence, v.Reasoning)
		}

		for _, a := range sp.Scores.Aspects {
			fmt.Fprintf(&b, "- **%s**: %q (confidence %.2f, sentiment %.2f)\n",
				a.Kind.Humanize(), a.Sentence, a.Confidence, a.Sentiment)
		}

		b.WriteString("\n---\n\n")
	}

	return b.String()
}
