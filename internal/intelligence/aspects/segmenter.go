// Package aspects implements sentence-level pain-signal extraction: sentence
// segmentation, sentiment analysis, the aspect catalog with its trigger and
// noise patterns, the per-sentence extractor, and the weighted aggregate
// score.
package aspects

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// Sentences splits text into trimmed, non-empty sentences using UAX#29
// segmentation, which handles abbreviations ("U.S.", "Inc.") better than
// punctuation splitting.  Empty input yields nil; segmentation never fails.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	iter := sentences.FromString(text)
	for iter.Next() {
		s := strings.TrimSpace(iter.Value())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
