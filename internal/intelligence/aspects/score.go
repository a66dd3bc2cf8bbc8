package aspects

import "github.com/turtacn/NicheSignal/internal/domain/post"

// Score computes the weighted aggregate pain score for a set of matches:
// the sum of weight(kind) times confidence, rounded to 2 decimals.  Empty
// input scores 0.0.
func (c *Catalog) Score(matches []post.AspectMatch) float64 {
	if len(matches) == 0 {
		return 0.0
	}
	var score float64
	for _, m := range matches {
		score += c.Weight(m.Kind) * m.Confidence
	}
	return round2(score)
}
