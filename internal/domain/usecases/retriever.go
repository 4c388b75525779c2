package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
)

// Searcher answers nearest-neighbour queries over the reference examples.
type Searcher interface {
	Search(ctx context.Context, query entities.Vector, k int) ([]entities.Neighbor, error)
}

// EncodeSearcher is what retrieval needs from the engine.
type EncodeSearcher interface {
	Encoder
	Searcher
}

// RAGRetriever finds the reference examples closest to a query.
type RAGRetriever struct {
	engine EncodeSearcher
}

// NewRAGRetriever creates a retriever over the engine.
func NewRAGRetriever(engine EncodeSearcher) *RAGRetriever {
	return &RAGRetriever{engine: engine}
}

// Retrieve returns up to k examples in ascending distance order.
// A blank query returns an empty result without calling the encoder.
func (r *RAGRetriever) Retrieve(ctx context.Context, query string, k int) (entities.RetrievalResult, error) {
	result := entities.RetrievalResult{Query: query, Examples: []entities.Neighbor{}}
	if strings.TrimSpace(query) == "" || k <= 0 {
		return result, nil
	}

	vectors, err := r.engine.Encode(ctx, []string{query})
	if err != nil {
		return result, fmt.Errorf("encoding query: %w", err)
	}

	neighbors, err := r.engine.Search(ctx, vectors[0], k)
	if err != nil {
		return result, fmt.Errorf("searching examples: %w", err)
	}
	result.Examples = neighbors
	return result, nil
}
