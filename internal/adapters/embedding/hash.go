package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashDimension is the vector size of the hashing embedder.
const DefaultHashDimension = 512

// HashAdapter implements ports.EmbeddingService without a model. Each lowercased
// word is hashed into one of dim buckets with a hash-derived sign, and the
// result is L2-normalized. Texts sharing words get similar vectors.
// Output is deterministic and needs no network, which suits tests and offline runs.
type HashAdapter struct {
	dim int
}

// NewHashAdapter creates a hashing embedder. A non-positive dim uses DefaultHashDimension.
func NewHashAdapter(dim int) *HashAdapter {
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	return &HashAdapter{dim: dim}
}

// Embed hashes one text.
func (a *HashAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := make([]float32, a.dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	for _, w := range words {
		h := fnv.New64a()
		h.Write([]byte(w))
		sum := h.Sum64()

		bucket := int(sum % uint64(a.dim))
		if sum>>63 == 1 {
			v[bucket]--
		} else {
			v[bucket]++
		}
	}

	l2normalize(v)
	return v, nil
}

// EmbedBatch hashes each text.
func (a *HashAdapter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := a.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// l2normalize normalizes a vector to unit length
func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
