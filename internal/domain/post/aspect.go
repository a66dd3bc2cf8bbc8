package post

import "strings"

// Kind identifies one pain-aspect category tracked by the detector.
type Kind string

const (
	KindToolComplaint      Kind = "tool_complaint"
	KindManualProcess      Kind = "manual_process"
	KindSeekingAlternative Kind = "seeking_alternative"
	KindCostIssue          Kind = "cost_issue"
	KindUXFrustration      Kind = "ux_frustration"
)

// AllKinds lists every known aspect kind in catalog order.
func AllKinds() []Kind {
	return []Kind{
		KindToolComplaint,
		KindManualProcess,
		KindSeekingAlternative,
		KindCostIssue,
		KindUXFrustration,
	}
}

// Valid reports whether k is one of the known aspect kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindToolComplaint, KindManualProcess, KindSeekingAlternative,
		KindCostIssue, KindUXFrustration:
		return true
	}
	return false
}

// String returns the snake_case form used in configuration and storage.
func (k Kind) String() string { return string(k) }

// Humanize returns the kind with underscores replaced by spaces, for use in
// classifier prompts and reports.
func (k Kind) Humanize() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// AspectMatch is one piece of pain evidence: the best-scoring sentence for a
// given aspect kind within a post.
type AspectMatch struct {
	Kind         Kind     `json:"kind"`
	Sentence     string   `json:"sentence"`      // truncated to 150 chars
	MatchedTerms []string `json:"matched_terms"` // deduplicated, at most 5
	Confidence   float64  `json:"confidence"`    // in [0.5, 1.0]
	Sentiment    float64  `json:"sentiment"`     // VADER compound, in [-1, 1]
}

// HasKind reports whether matches contains evidence for the given kind.
func HasKind(matches []AspectMatch, kind Kind) bool {
	for _, m := range matches {
		if m.Kind == kind {
			return true
		}
	}
	return false
}
