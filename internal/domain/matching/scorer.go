package matching

import (
	"fmt"
	"math"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
)

// Cosine returns dot(a,b) / (|a|*|b|). A zero-norm vector on either side scores 0.
// Vectors of different lengths are a programming error and panic.
func Cosine(a, b entities.Vector) float64 {
	normA, normB := norm(a), norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	if len(a) != len(b) {
		panic(fmt.Sprintf("matching: cosine of vectors with dimensions %d and %d", len(a), len(b)))
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	score := dot / (normA * normB)

	// Rounding can push self-similarity slightly outside [-1, 1].
	return math.Max(-1, math.Min(1, score))
}

// MeanPool averages vectors element-wise. It returns nil for no vectors.
func MeanPool(vectors []entities.Vector) entities.Vector {
	if len(vectors) == 0 {
		return nil
	}
	if len(vectors) == 1 {
		return vectors[0]
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			panic(fmt.Sprintf("matching: mean pool over dimensions %d and %d", dim, len(v)))
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}

	pooled := make(entities.Vector, dim)
	n := float64(len(vectors))
	for i, s := range sum {
		pooled[i] = float32(s / n)
	}
	return pooled
}

// Score pools the candidates and compares the pooled vector to the query.
// It never averages per-chunk similarities. No candidates score 0.
func Score(query entities.Vector, candidates []entities.Vector) float64 {
	if len(candidates) == 0 {
		return 0
	}
	return Cosine(query, MeanPool(candidates))
}

// Percentage is the display form of a raw score.
func Percentage(score float64) int {
	return entities.Percentage(score)
}

func norm(v entities.Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
