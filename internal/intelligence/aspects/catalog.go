package aspects

import (
	"regexp"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Aspect is one pain-aspect definition: its trigger patterns, the optional
// explicit-negative patterns, the sentiment gate, and the scoring weight.
type Aspect struct {
	Kind post.Kind

	// Triggers are the patterns that make a sentence a candidate for this
	// aspect.  At least one must match.
	Triggers []*regexp.Regexp

	// Negatives are explicit negative-language patterns.  A negative match
	// satisfies the sentiment gate regardless of the measured polarity.
	Negatives []*regexp.Regexp

	// SentimentThreshold, when non-nil, gates the aspect: the sentence
	// sentiment must be at or below it unless a Negative pattern matched.
	SentimentThreshold *float64

	Weight      float64
	Description string
}

// Catalog is the immutable set of aspect definitions plus the noise
// blacklist.  Built once at startup; all methods are read-only and safe for
// concurrent use.
type Catalog struct {
	aspects []Aspect
	weights map[post.Kind]float64
	noise   []*regexp.Regexp
}

func thresholdOf(v float64) *float64 { return &v }

// defaultAspects returns the built-in aspect table.  Patterns are matched
// case-insensitively against single sentences.
func defaultAspects() []Aspect {
	return []Aspect{
		{
			Kind: post.KindToolComplaint,
			Triggers: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(software|app|tool|system|platform|program)\b`),
			},
			Negatives: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(crash|slow|broken|terrible|awful|horrible|worst|sucks|useless|buggy|unreliable)\b`),
			},
			SentimentThreshold: thresholdOf(-0.15),
			Weight:             2.0,
			Description:        "Complaint about existing software/tool",
		},
		{
			Kind: post.KindManualProcess,
			Triggers: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(spreadsheet|excel|manual|pen and paper|paper and pencil|copy.?paste|by hand|handwritten)\b`),
				regexp.MustCompile(`(?i)\b(keep.{0,15}(track|record|log)|use.{0,10}paper)\b`),
			},
			Weight:      1.5,
			Description: "Using manual methods for a task",
		},
		{
			Kind: post.KindSeekingAlternative,
			Triggers: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(is there|any (tool|app|software|application)|alternative|looking for)\b`),
				regexp.MustCompile(`(?i)\b(how do you|does anyone|what do you use|what software|what (tool|app))\b`),
				regexp.MustCompile(`(?i)\b(anyone know|suggestion|recommend|best way to)\b`),
				regexp.MustCompile(`(?i)\bwhat.{0,20}(use|track|manage|record)\b`),
				regexp.MustCompile(`(?i)\bany.{0,30}(app|software|tool|application)\b`),
			},
			Weight:      2.5,
			Description: "Actively seeking a solution",
		},
		{
			Kind: post.KindCostIssue,
			Triggers: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(expensive|cost|price|afford|budget|overkill|overpriced|too much)\b`),
			},
			SentimentThreshold: thresholdOf(-0.1),
			Weight:             1.0,
			Description:        "Complaint about pricing/value",
		},
		{
			Kind: post.KindUXFrustration,
			Triggers: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(clunky|slow|crash|crashes|ugly|confusing|frustrating|nightmare|annoying|hate|terrible|horrible)\b`),
			},
			SentimentThreshold: thresholdOf(-0.2),
			Weight:             1.5,
			Description:        "Frustration with user experience",
		},
	}
}

// defaultNoise returns the built-in blacklist.  A post whose full text
// matches any of these is career venting, student chatter, or literal
// physical pain, not software pain, and is skipped entirely.
func defaultNoise() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(salary|resume|interview|student|intern|degree|homework|job hunt|career)\b`),
		regexp.MustCompile(`(?i)\b(my boss|coworker|burnout|quit|fired|laid off)\b`),
		regexp.MustCompile(`(?i)\b(regret|depressing|depression|hate my job|toxic workplace)\b`),
		regexp.MustCompile(`(?i)\b(bee sting|back pain|physical pain)\b`),
	}
}

// DefaultCatalog builds the catalog with built-in weights and noise patterns.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(nil, nil)
	return c
}

// NewCatalog builds an immutable catalog, applying optional weight overrides
// (keyed by kind string) and extra noise patterns from configuration.
// Unknown kinds in weightOverrides and invalid extra patterns are errors;
// the catalog is either fully valid or not built at all.
func NewCatalog(weightOverrides map[string]float64, extraNoisePatterns []string) (*Catalog, error) {
	aspectList := defaultAspects()

	for kindName, weight := range weightOverrides {
		kind := post.Kind(kindName)
		if !kind.Valid() {
			return nil, errors.New(errors.ErrCodeUnknownAspect,
				"unknown aspect kind in weight overrides").WithDetail(kindName)
		}
		if weight <= 0 {
			return nil, errors.New(errors.ErrCodeCatalogInvalid,
				"aspect weight must be positive").WithDetail(kindName)
		}
		for i := range aspectList {
			if aspectList[i].Kind == kind {
				aspectList[i].Weight = weight
			}
		}
	}

	noise := defaultNoise()
	for _, pattern := range extraNoisePatterns {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePatternInvalid,
				"invalid extra noise pattern").WithDetail(pattern)
		}
		noise = append(noise, re)
	}

	weights := make(map[post.Kind]float64, len(aspectList))
	for _, a := range aspectList {
		weights[a.Kind] = a.Weight
	}

	return &Catalog{aspects: aspectList, weights: weights, noise: noise}, nil
}

// Aspects returns the aspect definitions in catalog order.
func (c *Catalog) Aspects() []Aspect { return c.aspects }

// Weight returns the scoring weight for a kind.  Unknown kinds weigh 1.0.
func (c *Catalog) Weight(kind post.Kind) float64 {
	if w, ok := c.weights[kind]; ok {
		return w
	}
	return 1.0
}

// Describe returns the human-readable description for a kind, or the
// humanized kind name when the catalog has no entry for it.
func (c *Catalog) Describe(kind post.Kind) string {
	for _, a := range c.aspects {
		if a.Kind == kind {
			return a.Description
		}
	}
	return kind.Humanize()
}

// IsNoise reports whether the full post text trips the noise blacklist.
func (c *Catalog) IsNoise(text string) bool {
	for _, re := range c.noise {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
