// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// DefaultBatchSize is how many texts go to the model per request.
const DefaultBatchSize = 32

// Encoder turns texts into vectors, one per input, in order.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([]entities.Vector, error)
}

// Embedder wraps the embedding model boundary with batching, blank handling
// and a fixed output dimension.
type Embedder struct {
	service   ports.EmbeddingService
	batchSize int

	mu  sync.RWMutex
	dim int // 0 until the first model response
}

// NewEmbedder creates an Embedder. A non-positive batch size uses DefaultBatchSize.
func NewEmbedder(service ports.EmbeddingService, batchSize int) *Embedder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Embedder{service: service, batchSize: batchSize}
}

// Dimension returns the vector dimension, or 0 if no vector has been produced yet.
func (e *Embedder) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dim
}

// Encode embeds texts in batches. Blank texts are never sent to the model; they
// get a zero vector (empty if the dimension is still unknown).
// A model failure wraps ErrModelUnavailable. Context errors are returned as is.
// Each batch is attempted exactly once.
func (e *Embedder) Encode(ctx context.Context, texts []string) ([]entities.Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pending []int
	for i, t := range texts {
		if strings.TrimSpace(t) != "" {
			pending = append(pending, i)
		}
	}

	out := make([]entities.Vector, len(texts))
	dim := e.Dimension()

	for start := 0; start < len(pending); start += e.batchSize {
		end := start + e.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		idx := pending[start:end]

		batch := make([]string, len(idx))
		for i, j := range idx {
			batch[i] = texts[j]
		}

		vectors, err := e.service.EmbedBatch(ctx, batch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("encoding batch at %d: %w: %w", start, entities.ErrModelUnavailable, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: model returned %d vectors for %d texts",
				entities.ErrModelUnavailable, len(vectors), len(batch))
		}

		for i, v := range vectors {
			if len(v) == 0 {
				return nil, fmt.Errorf("%w: model returned an empty vector", entities.ErrModelUnavailable)
			}
			if dim == 0 {
				dim = len(v)
			} else if len(v) != dim {
				return nil, fmt.Errorf("%w: got %d, want %d", entities.ErrDimensionMismatch, len(v), dim)
			}
			out[idx[i]] = entities.Vector(v)
		}
	}

	if dim > 0 {
		e.mu.Lock()
		if e.dim == 0 {
			e.dim = dim
		}
		e.mu.Unlock()
	}

	for i := range out {
		if out[i] == nil {
			out[i] = make(entities.Vector, dim)
		}
	}
	return out, nil
}
