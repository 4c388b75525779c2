// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"
	"io"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
)

// EmbeddingService is the model boundary: text in, vectors out.
// Implementations must not retry internally and must honor ctx.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per input in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMService generates text responses from a language model.
type LLMService interface {
	// Generate produces a complete response for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream produces the response token by token.
	// The channel is closed after a token with Done set.
	GenerateStream(ctx context.Context, prompt string) (<-chan StreamToken, error)
}

// StreamToken represents a single token in a streaming LLM response.
type StreamToken struct {
	Content string
	Done    bool
	Error   error
}

// VectorIndex stores reference vectors and answers exact nearest-neighbour queries.
// Add must not be called concurrently with itself; Search may be called from any goroutine.
type VectorIndex interface {
	// Add appends entries. All vectors must share the index dimension.
	Add(entries []entities.IndexEntry) error

	// Search returns up to k neighbours ordered by ascending distance.
	// k <= 0 and an empty index both yield an empty result and no error.
	Search(query entities.Vector, k int) ([]entities.Neighbor, error)

	// Len returns the number of stored entries.
	Len() int
}

// DocumentLoader reads documents from disk.
type DocumentLoader interface {
	// Load reads a document from the given path.
	Load(ctx context.Context, path string) (entities.Document, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// DocumentParser extracts text from document formats (PDF, DOCX, plain text).
type DocumentParser interface {
	// Parse extracts text content from document bytes.
	Parse(ctx context.Context, data []byte, filename string) (string, error)

	// SupportedFormats returns formats this parser handles (e.g., "pdf", "docx").
	SupportedFormats() []string
}

// CorpusSource supplies the reference examples the index is built from.
type CorpusSource interface {
	// Examples returns the reference texts in order. Blank entries are an error.
	Examples(ctx context.Context) ([]string, error)

	// Name identifies the source in logs.
	Name() string
}

// ObjectFetcher reads a single object from remote storage.
type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}

// ApplicationStore persists job application tracker records.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *entities.Application) error
	GetApplication(ctx context.Context, id string) (*entities.Application, error)
	ListApplications(ctx context.Context) ([]entities.Application, error)
	UpdateApplication(ctx context.Context, app *entities.Application) error
	DeleteApplication(ctx context.Context, id string) error
}

// StoryStore persists generated STAR stories.
type StoryStore interface {
	SaveStory(ctx context.Context, story *entities.StarStory) error
	ListStories(ctx context.Context) ([]entities.StarStory, error)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
