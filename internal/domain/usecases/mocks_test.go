package usecases

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// mockEmbeddingService implements ports.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu      sync.Mutex
	embedFn func(text string) ([]float32, error)
	batches [][]string
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, append([]string(nil), texts...))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		emb, err := m.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		result[i] = emb
	}
	return result, nil
}

func (m *mockEmbeddingService) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []string
	for _, b := range m.batches {
		all = append(all, b...)
	}
	return all
}

// bagOfWords counts occurrences of each vocabulary word, one dimension per word.
func bagOfWords(vocab ...string) func(string) ([]float32, error) {
	return func(text string) ([]float32, error) {
		v := make([]float32, len(vocab))
		for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		}) {
			for i, term := range vocab {
				if w == term {
					v[i]++
				}
			}
		}
		return v, nil
	}
}

// countingEncoder records how often Encode is called.
type countingEncoder struct {
	inner Encoder
	calls int
}

func (c *countingEncoder) Encode(ctx context.Context, texts []string) ([]entities.Vector, error) {
	c.calls++
	return c.inner.Encode(ctx, texts)
}

// mockIndex implements ports.VectorIndex by returning entries in insertion order.
type mockIndex struct {
	entries []entities.IndexEntry
	addErr  error
}

func (m *mockIndex) Add(entries []entities.IndexEntry) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockIndex) Search(query entities.Vector, k int) ([]entities.Neighbor, error) {
	out := []entities.Neighbor{}
	for i, e := range m.entries {
		if i >= k {
			break
		}
		out = append(out, entities.Neighbor{Payload: e.Payload, Distance: float64(i), Position: i})
	}
	return out, nil
}

func (m *mockIndex) Len() int { return len(m.entries) }

// engineSearcher adapts an Encoder and an index to EncodeSearcher.
type engineSearcher struct {
	Encoder
	index ports.VectorIndex
}

func (e engineSearcher) Search(ctx context.Context, q entities.Vector, k int) ([]entities.Neighbor, error) {
	return e.index.Search(q, k)
}

// mockLLM implements ports.LLMService for testing.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	delay    time.Duration
	prompts  []string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	if m.response != "" {
		return m.response, nil
	}
	return "mocked answer", nil
}

func (m *mockLLM) GenerateStream(ctx context.Context, prompt string) (<-chan ports.StreamToken, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	ch := make(chan ports.StreamToken, 4)
	go func() {
		defer close(ch)
		for _, word := range strings.Fields(m.response) {
			ch <- ports.StreamToken{Content: word + " "}
		}
		ch <- ports.StreamToken{Done: true}
	}()
	return ch, nil
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockStoryStore implements ports.StoryStore in memory.
type mockStoryStore struct {
	stories []entities.StarStory
}

func (m *mockStoryStore) SaveStory(ctx context.Context, s *entities.StarStory) error {
	m.stories = append([]entities.StarStory{*s}, m.stories...)
	return nil
}

func (m *mockStoryStore) ListStories(ctx context.Context) ([]entities.StarStory, error) {
	return m.stories, nil
}

// mockApplicationStore implements ports.ApplicationStore in memory.
type mockApplicationStore struct {
	apps map[string]entities.Application
}

func newMockApplicationStore() *mockApplicationStore {
	return &mockApplicationStore{apps: make(map[string]entities.Application)}
}

func (m *mockApplicationStore) CreateApplication(ctx context.Context, a *entities.Application) error {
	m.apps[a.ID] = *a
	return nil
}

func (m *mockApplicationStore) GetApplication(ctx context.Context, id string) (*entities.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &a, nil
}

func (m *mockApplicationStore) ListApplications(ctx context.Context) ([]entities.Application, error) {
	out := make([]entities.Application, 0, len(m.apps))
	for _, a := range m.apps {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockApplicationStore) UpdateApplication(ctx context.Context, a *entities.Application) error {
	if _, ok := m.apps[a.ID]; !ok {
		return entities.ErrNotFound
	}
	m.apps[a.ID] = *a
	return nil
}

func (m *mockApplicationStore) DeleteApplication(ctx context.Context, id string) error {
	if _, ok := m.apps[id]; !ok {
		return entities.ErrNotFound
	}
	delete(m.apps, id)
	return nil
}

// textLoader implements ports.DocumentLoader by reading files as plain text.
type textLoader struct{}

func (textLoader) Load(ctx context.Context, path string) (entities.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Document{}, err
	}
	return entities.Document{ID: path, Name: filepath.Base(path), Path: path, Content: string(data)}, nil
}

func (textLoader) SupportedExtensions() []string { return []string{".txt"} }

// mockWatcher implements ports.FileWatcher with a channel the test drives.
type mockWatcher struct {
	events chan ports.FileEvent
}

func (m *mockWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	return m.events, nil
}

func (m *mockWatcher) Stop() error { return nil }

// staticCorpus implements ports.CorpusSource.
type staticCorpus struct {
	examples []string
	err      error
}

func (s staticCorpus) Examples(ctx context.Context) ([]string, error) { return s.examples, s.err }
func (s staticCorpus) Name() string                                   { return "static" }
