package aspects

import (
	"math"
	"regexp"
	"strings"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
)

const (
	maxSentenceLen  = 150
	maxMatchedTerms = 5
	baseConfidence  = 0.5
	triggerStep     = 0.15
	negativeStep    = 0.2
	toneBonus       = 0.1
)

// Extractor detects pain aspects in post text at sentence level.
type Extractor interface {
	// Detect returns at most one AspectMatch per kind, highest confidence
	// winning.  Noise posts and empty text yield an empty result, never an
	// error.
	Detect(text string) []post.AspectMatch
}

type extractorImpl struct {
	catalog   *Catalog
	sentiment SentimentScorer
	logger    logging.Logger
}

// NewExtractor constructs an extractor over the given catalog.  A nil
// sentiment scorer defaults to VADER; a nil logger is replaced with a nop.
func NewExtractor(catalog *Catalog, sentiment SentimentScorer, logger logging.Logger) Extractor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if sentiment == nil {
		sentiment = NewVaderScorer()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &extractorImpl{catalog: catalog, sentiment: sentiment, logger: logger}
}

func (e *extractorImpl) Detect(text string) []post.AspectMatch {
	if text == "" {
		return nil
	}
	if e.catalog.IsNoise(text) {
		e.logger.Debug("post skipped by noise blacklist")
		return nil
	}

	// Highest-confidence match per kind wins.
	best := make(map[post.Kind]post.AspectMatch)

	for _, sentence := range Sentences(text) {
		sentiment := e.sentiment.Score(sentence)

		for _, aspect := range e.catalog.Aspects() {
			triggers := findTerms(sentence, aspect.Triggers)
			if len(triggers) == 0 {
				continue
			}

			negatives := findTerms(sentence, aspect.Negatives)

			// Sentiment gate: sufficiently negative tone, or explicit
			// negative language regardless of measured polarity.
			if t := aspect.SentimentThreshold; t != nil {
				if sentiment > *t && len(negatives) == 0 {
					continue
				}
			}

			confidence := baseConfidence +
				float64(len(triggers))*triggerStep +
				float64(len(negatives))*negativeStep
			if aspect.SentimentThreshold != nil && sentiment < *aspect.SentimentThreshold {
				confidence += toneBonus
			}
			confidence = round2(math.Min(confidence, 1.0))

			match := post.AspectMatch{
				Kind:         aspect.Kind,
				Sentence:     post.Truncate(sentence, maxSentenceLen),
				MatchedTerms: dedupeTerms(append(triggers, negatives...), maxMatchedTerms),
				Confidence:   confidence,
				Sentiment:    round2(sentiment),
			}

			if prev, ok := best[aspect.Kind]; !ok || match.Confidence > prev.Confidence {
				best[aspect.Kind] = match
			}
		}
	}

	if len(best) == 0 {
		return nil
	}

	// Catalog order keeps output deterministic; the result is still set
	// semantics over kinds.
	out := make([]post.AspectMatch, 0, len(best))
	for _, aspect := range e.catalog.Aspects() {
		if m, ok := best[aspect.Kind]; ok {
			out = append(out, m)
		}
	}
	return out
}

// findTerms returns every pattern occurrence in the sentence, one entry per
// occurrence so repeated terms raise confidence.  Terms are lowercased so
// "Excel" and "excel" dedupe to one matched term.
func findTerms(sentence string, patterns []*regexp.Regexp) []string {
	lower := strings.ToLower(sentence)
	var found []string
	for _, re := range patterns {
		found = append(found, re.FindAllString(lower, -1)...)
	}
	return found
}

// dedupeTerms removes duplicates preserving first-seen order and caps the
// result at limit entries.
func dedupeTerms(terms []string, limit int) []string {
	if len(terms) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
