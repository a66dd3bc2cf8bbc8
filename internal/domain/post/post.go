// Package post implements the post bounded context: the scraped discussion
// post, the pain-aspect evidence extracted from it, the score bundle, and
// the classifier verdict.  All scoring business rules that concern a single
// post live here; extraction and model access are handled by the
// intelligence and infrastructure layers.
package post

import (
	"strings"
	"time"
)

// Post is a scraped discussion thread.  Posts are immutable once built;
// scoring never mutates them.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	URL          string    `json:"url"`
	CommentCount int       `json:"comment_count"`
	Comments     []string  `json:"comments,omitempty"`
	PostedAt     string    `json:"posted_at,omitempty"` // raw site text, e.g. "5 days ago"
	FetchedAt    time.Time `json:"fetched_at,omitempty"`
}

// Text returns the title and body joined for sentence-level analysis.
// Comments are deliberately excluded; they describe other users' pain.
func (p Post) Text() string {
	switch {
	case p.Title == "":
		return p.Body
	case p.Body == "":
		return p.Title
	default:
		return p.Title + "\n" + p.Body
	}
}

// IsEmpty reports whether the post carries no analyzable text at all.
func (p Post) IsEmpty() bool {
	return strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.Body) == ""
}

// Truncate cuts s to at most n runes.  Length limits on evidence sentences,
// prompt bodies, and fallback reasons are in characters, and the cut must
// never split a multi-byte rune into invalid UTF-8.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
