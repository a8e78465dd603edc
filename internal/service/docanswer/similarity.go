package docanswer

import (
	"math"
	"sort"

	"github.com/sandevgo/tunebot/internal/core"
)

// CosineSimilarity is dot(a, b) / (|a| * |b|), defined as 0 when either
// vector has zero norm (or the lengths differ) instead of erroring.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK scores every chunk against the query vector and returns the best k,
// sorted by similarity descending. The sort is stable so equal scores keep
// ingestion order.
func TopK(query []float64, chunks []core.RetrievedChunk, k int) []core.RetrievedChunk {
	scored := make([]core.RetrievedChunk, len(chunks))
	for i, chunk := range chunks {
		chunk.Similarity = CosineSimilarity(query, chunk.Embedding)
		scored[i] = chunk
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
