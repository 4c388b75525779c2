package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/0xcro3dile/careercraft/internal/adapters/corpus"
	"github.com/0xcro3dile/careercraft/internal/adapters/store"
	"github.com/0xcro3dile/careercraft/internal/config"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
	"github.com/0xcro3dile/careercraft/internal/domain/usecases"
)

type failingWatcher struct{ err error }

func (w failingWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	return nil, w.err
}

func (w failingWatcher) Stop() error { return w.err }

func offlineConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Embedding.Provider = "hash"
	cfg.Embedding.Dimension = 128
	cfg.LLM.Provider = "none"
	cfg.Store.DSN = filepath.Join(t.TempDir(), "app.db")
	return cfg
}

func TestNewCorpusSource(t *testing.T) {
	src, err := NewCorpusSource(config.CorpusConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(corpus.EmbeddedSource); !ok {
		t.Errorf("expected embedded source, got %T", src)
	}

	src, _ = NewCorpusSource(config.CorpusConfig{Path: "examples.json", Key: "ignored"}, nil)
	if _, ok := src.(*corpus.FileSource); !ok {
		t.Errorf("expected file source, got %T", src)
	}

	if _, err := NewCorpusSource(config.CorpusConfig{Key: "examples.json"}, nil); err == nil {
		t.Error("expected error for key without fetcher")
	}
}

func TestNewObjectFetcher_NoBucket(t *testing.T) {
	f, err := NewObjectFetcher(context.Background(), config.CorpusConfig{}, config.Secrets{})
	if err != nil || f != nil {
		t.Errorf("expected no fetcher, got %v, %v", f, err)
	}
}

func TestNewLLMService_None(t *testing.T) {
	svc, err := NewLLMService(context.Background(), config.LLMConfig{Provider: "none"}, config.Secrets{})
	if err != nil || svc != nil {
		t.Errorf("expected nil service, got %v, %v", svc, err)
	}
}

func TestNewEmbeddingService_RequiresKeys(t *testing.T) {
	ctx := context.Background()
	if _, err := NewEmbeddingService(ctx, config.EmbeddingConfig{Provider: "openai"}, config.Secrets{}); err == nil {
		t.Error("openai without key should fail")
	}
	if _, err := NewEmbeddingService(ctx, config.EmbeddingConfig{Provider: "gemini"}, config.Secrets{}); err == nil {
		t.Error("gemini without key should fail")
	}
	if _, err := NewEmbeddingService(ctx, config.EmbeddingConfig{Provider: "word2vec"}, config.Secrets{}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestNew_LoadsEmbeddedCorpus(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, offlineConfig(t), config.Secrets{})
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	defer a.Close()

	if a.Generator != nil {
		t.Error("generation should be disabled")
	}
	if a.Inbox != nil {
		t.Error("inbox should be disabled without a directory")
	}

	if err := a.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if a.Engine.State() != usecases.StateReady || a.Engine.Size() == 0 {
		t.Errorf("engine not ready: %s with %d examples", a.Engine.State(), a.Engine.Size())
	}
	if a.Engine.Dimension() != 128 {
		t.Errorf("expected dimension 128, got %d", a.Engine.Dimension())
	}
}

func TestNew_WithInbox(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Inbox.Dir = t.TempDir()

	a, err := New(context.Background(), cfg, config.Secrets{})
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	defer a.Close()

	if a.Inbox == nil || a.Services.Inbox == nil {
		t.Error("expected inbox to be wired")
	}
}

func TestNewCore_BadVocabulary(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Tools.Vocabulary = []string{"SQL", "sql"}
	if _, err := NewCore(context.Background(), cfg, config.Secrets{}); err == nil {
		t.Error("expected error for duplicate vocabulary terms")
	}
}

func TestApp_CloseReportsWatcherError(t *testing.T) {
	db, err := store.Open("sqlite3", filepath.Join(t.TempDir(), "close.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	stopErr := errors.New("watcher already closed")
	a := &App{Store: db, watcher: failingWatcher{err: stopErr}}

	if err := a.Close(); !errors.Is(err, stopErr) {
		t.Errorf("expected watcher error, got %v", err)
	}
}
