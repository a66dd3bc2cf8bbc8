// Package semantic scores how close a post reads to a known business-pain
// category using embedding similarity against fixed anchor phrases, with a
// penalty when the post reads closer to off-topic venting.
package semantic

import (
	"context"
	"math"
)

// Embedder generates vector embeddings from text.  Implementations must be
// stable: embedding the same text twice yields the same vector.
type Embedder interface {
	// Embed generates a fixed-length vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CosineSimilarity computes similarity between two embeddings.  Returns 1.0
// for identical vectors, 0.0 for orthogonal, mismatched-length, or zero
// vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
