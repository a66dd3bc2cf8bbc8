package post

import "strings"

// Classification is the opportunity label produced by the classifier.
type Classification string

const (
	ClassStrongOpportunity Classification = "STRONG_OPPORTUNITY"
	ClassWeakOpportunity   Classification = "WEAK_OPPORTUNITY"
	ClassNotOpportunity    Classification = "NOT_OPPORTUNITY"
)

// Valid reports whether c is one of the three known labels.
func (c Classification) Valid() bool {
	switch c {
	case ClassStrongOpportunity, ClassWeakOpportunity, ClassNotOpportunity:
		return true
	}
	return false
}

// IsOpportunity reports whether the label counts as an opportunity.
func (c Classification) IsOpportunity() bool {
	return c == ClassStrongOpportunity || c == ClassWeakOpportunity
}

// ParseClassification normalizes a model-produced label (case, surrounding
// whitespace, spaces vs underscores) and reports whether the result is one
// of the known labels.  Anything unrecognized is a parse failure upstream.
func ParseClassification(s string) (Classification, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	c := Classification(normalized)
	return c, c.Valid()
}

// PainType categorizes the underlying pain behind an opportunity.
type PainType string

const (
	PainTypeTool    PainType = "tool"
	PainTypeProcess PainType = "process"
	PainTypeCost    PainType = "cost"
	PainTypeUX      PainType = "ux"
	PainTypeNone    PainType = "none"    // model saw no concrete pain
	PainTypeUnknown PainType = "unknown" // pain exists but is uncategorized
)

// ParsePainType normalizes a model-produced pain type.  An empty value maps
// to "none"; an unrecognized value maps to "unknown" rather than failing the
// whole parse, since pain type is advisory.
func ParsePainType(s string) PainType {
	switch p := PainType(strings.ToLower(strings.TrimSpace(s))); p {
	case PainTypeTool, PainTypeProcess, PainTypeCost, PainTypeUX,
		PainTypeNone, PainTypeUnknown:
		return p
	case "":
		return PainTypeNone
	default:
		return PainTypeUnknown
	}
}

// Verdict is the classifier's judgement on a single post.  Verdicts are
// created once and never revised.
type Verdict struct {
	IsOpportunity  bool           `json:"is_opportunity"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Reasoning      string         `json:"reasoning"`
	PainType       PainType       `json:"pain_type"`
	Fallback       bool           `json:"fallback,omitempty"` // heuristic verdict, model was unavailable
}

// ScoreBundle aggregates the deterministic scores computed for a post
// before classification.
type ScoreBundle struct {
	AspectScore   float64       `json:"aspect_score"`
	SemanticScore float64       `json:"semantic_score"`
	BestAnchor    string        `json:"best_anchor,omitempty"`
	Aspects       []AspectMatch `json:"aspects"`
}

// RelevantAt reports whether the bundle clears the relevance gate: strong
// aspect evidence alone suffices, or weaker aspect evidence corroborated by
// semantic similarity.  Pure function of the bundle and thresholds.
func (b ScoreBundle) RelevantAt(aspectThreshold, semanticThreshold float64) bool {
	if b.AspectScore >= aspectThreshold {
		return true
	}
	return b.AspectScore > 0 && b.SemanticScore > semanticThreshold
}

// ScoredPost pairs a post with its scores and, once classification has run,
// its verdict.
type ScoredPost struct {
	Post    Post        `json:"post"`
	Scores  ScoreBundle `json:"scores"`
	Verdict *Verdict    `json:"verdict,omitempty"`
}
