// Package entities contains core business entities.
// These are plain value types shared by every layer; they carry no knowledge of storage,
// transport or which model produced a vector.
package entities

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is a piece of source text (a resume, a job description) plus where it came from.
// Documents are passed by value and never modified after construction.
type Document struct {
	ID        string
	Name      string // Source identifier: filename or "job description"
	Path      string
	Content   string
	CreatedAt time.Time
}

// NewDocument creates a document with a fresh random ID.
func NewDocument(name, content string) Document {
	return Document{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// IsBlank reports whether the document has no non-whitespace content.
func (d Document) IsBlank() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Vector is an embedding produced by a model. All vectors from one embedder share a dimension.
type Vector []float32

// Chunk is a bullet-like unit of a document.
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Index      int    // Position in document
	Embedding  Vector // Populated by the embedder
}

// IndexEntry pairs a vector with the reference text it was derived from.
type IndexEntry struct {
	Vector  Vector
	Payload string
}

// Neighbor is one search hit from the vector index.
type Neighbor struct {
	Payload  string
	Distance float64
	Position int // Insertion order within the index
}

// MatchResult is the outcome of comparing one document against a reference.
// Score is the raw signed cosine similarity; clamping happens only in Percentage.
type MatchResult struct {
	DocumentID string
	Source     string
	Score      float64
	Matched    []string
	Missing    []string
}

// Percentage is the display form of the score: round(max(0, score) * 100).
func (m MatchResult) Percentage() int {
	return Percentage(m.Score)
}

// Percentage converts a raw similarity to a 0-100 display value.
func Percentage(score float64) int {
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	return int(math.Round(score * 100))
}

// RetrievalResult holds the nearest reference examples for a query, closest first.
type RetrievalResult struct {
	Query    string
	Examples []Neighbor
}

// Texts returns the example payloads in rank order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r.Examples))
	for i, ex := range r.Examples {
		texts[i] = ex.Payload
	}
	return texts
}

// IsEmpty reports whether nothing was retrieved.
func (r RetrievalResult) IsEmpty() bool {
	return len(r.Examples) == 0
}
