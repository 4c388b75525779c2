// Package vectordb provides the in-memory reference index.
// Search is exact brute force: every query is compared with every entry.
package vectordb

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
)

// Metric is the distance function used by the index.
type Metric string

const (
	// MetricL2 is squared Euclidean distance.
	MetricL2 Metric = "l2"
	// MetricCosine is 1 - cosine similarity. Zero-norm vectors have distance 1.
	MetricCosine Metric = "cosine"
)

// ParseMetric parses a metric name. An empty name means MetricL2.
func ParseMetric(name string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(name))) {
	case "", MetricL2:
		return MetricL2, nil
	case MetricCosine:
		return MetricCosine, nil
	}
	return "", fmt.Errorf("unknown distance metric %q", name)
}

// FlatIndex implements ports.VectorIndex with an append-only slice.
// Appends take the write lock; searches share the read lock and run in parallel.
type FlatIndex struct {
	metric Metric

	mu      sync.RWMutex
	dim     int
	vectors []entities.Vector
	payload []string
}

// NewFlatIndex creates an empty index. dim may be 0 to take the dimension from the first Add.
func NewFlatIndex(metric Metric, dim int) *FlatIndex {
	if metric == "" {
		metric = MetricL2
	}
	return &FlatIndex{metric: metric, dim: dim}
}

// Metric returns the distance function in use.
func (x *FlatIndex) Metric() Metric {
	return x.metric
}

// Dimension returns the vector dimension, 0 while unknown.
func (x *FlatIndex) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dim
}

// Len returns the number of entries.
func (x *FlatIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Add appends entries. Either all entries are added or none are.
func (x *FlatIndex) Add(entries []entities.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	dim := x.dim
	if dim == 0 {
		dim = len(entries[0].Vector)
	}
	for i, e := range entries {
		if len(e.Vector) == 0 || len(e.Vector) != dim {
			return fmt.Errorf("entry %d: %w: got %d, want %d", i, entities.ErrDimensionMismatch, len(e.Vector), dim)
		}
	}

	x.dim = dim
	for _, e := range entries {
		v := make(entities.Vector, len(e.Vector))
		copy(v, e.Vector)
		x.vectors = append(x.vectors, v)
		x.payload = append(x.payload, e.Payload)
	}
	return nil
}

// Search returns the k nearest entries by ascending distance. Ties keep
// insertion order. k is clamped to Len; k <= 0 or an empty index gives an
// empty result.
func (x *FlatIndex) Search(query entities.Vector, k int) ([]entities.Neighbor, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if k <= 0 || len(x.vectors) == 0 {
		return []entities.Neighbor{}, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query: %w: got %d, want %d", entities.ErrDimensionMismatch, len(query), x.dim)
	}

	hits := make([]entities.Neighbor, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = entities.Neighbor{
			Payload:  x.payload[i],
			Distance: x.distance(query, v),
			Position: i,
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (x *FlatIndex) distance(a, b entities.Vector) float64 {
	if x.metric == MetricCosine {
		return 1 - cosineSimilarity(a, b)
	}
	return squaredL2(a, b)
}

func squaredL2(a, b entities.Vector) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// cosineSimilarity calculates cosine similarity between two vectors of equal length.
func cosineSimilarity(a, b entities.Vector) float64 {
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
