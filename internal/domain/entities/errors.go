package entities

import "errors"

// Domain errors. Wrap with fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	// ErrModelUnavailable means the embedding backend could not be loaded or reached.
	// It is fatal for matching and retrieval; callers decide whether to retry.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrEmptyInput means a blank document was supplied where text is required.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoCandidates means resume selection was asked to choose from nothing.
	ErrNoCandidates = errors.New("no candidates to select from")

	// ErrIndexEmpty marks a search against an index with no entries. The index itself
	// returns an empty result instead; this is for callers reporting "no examples found".
	ErrIndexEmpty = errors.New("reference index is empty")

	// ErrDimensionMismatch means vectors from different models were mixed.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNotFound means a stored record does not exist.
	ErrNotFound = errors.New("not found")
)
