package aspects

import "github.com/jonreiter/govader"

// SentimentScorer scores the emotional polarity of a single sentence.
// Implementations must be deterministic within a process and must never
// fail; a scorer that cannot analyze a sentence returns 0.0.
type SentimentScorer interface {
	// Score returns the compound polarity in [-1.0, 1.0].
	Score(sentence string) float64
}

type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer returns a SentimentScorer backed by the VADER lexicon.
// The analyzer is read-only after construction and safe for concurrent use.
func NewVaderScorer() SentimentScorer {
	return &vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *vaderScorer) Score(sentence string) float64 {
	if sentence == "" {
		return 0.0
	}
	return v.analyzer.PolarityScores(sentence).Compound
}

// fixedScorer returns the same polarity for every sentence.  Test helper.
type fixedScorer float64

func (f fixedScorer) Score(string) float64 { return float64(f) }
