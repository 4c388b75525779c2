// Package app wires configuration into adapters and use cases.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/0xcro3dile/careercraft/internal/adapters/corpus"
	"github.com/0xcro3dile/careercraft/internal/adapters/embedding"
	"github.com/0xcro3dile/careercraft/internal/adapters/filewatcher"
	"github.com/0xcro3dile/careercraft/internal/adapters/llm"
	"github.com/0xcro3dile/careercraft/internal/adapters/loader"
	"github.com/0xcro3dile/careercraft/internal/adapters/parser"
	"github.com/0xcro3dile/careercraft/internal/adapters/store"
	"github.com/0xcro3dile/careercraft/internal/adapters/vectordb"
	"github.com/0xcro3dile/careercraft/internal/config"
	"github.com/0xcro3dile/careercraft/internal/domain/matching"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
	"github.com/0xcro3dile/careercraft/internal/domain/usecases"
	httpserver "github.com/0xcro3dile/careercraft/internal/infrastructure/http"
)

// NewEmbeddingService builds the configured embedding backend.
func NewEmbeddingService(ctx context.Context, cfg config.EmbeddingConfig, secrets config.Secrets) (ports.EmbeddingService, error) {
	switch cfg.Provider {
	case "ollama":
		return embedding.NewOllamaAdapter(cfg.URL, cfg.Model), nil
	case "openai":
		return embedding.NewOpenAIAdapter(secrets.OpenAIKey, cfg.URL, cfg.Model)
	case "gemini":
		return embedding.NewGeminiAdapter(ctx, secrets.GoogleKey, cfg.Model)
	case "hash":
		return embedding.NewHashAdapter(cfg.Dimension), nil
	}
	return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
}

// NewLLMService builds the configured generation backend. Provider "none" returns nil.
func NewLLMService(ctx context.Context, cfg config.LLMConfig, secrets config.Secrets) (ports.LLMService, error) {
	switch cfg.Provider {
	case "none":
		return nil, nil
	case "ollama":
		return llm.NewOllamaLLMAdapter(cfg.URL, cfg.Model), nil
	case "openai":
		return llm.NewOpenAIAdapter(secrets.OpenAIKey, cfg.URL, cfg.Model)
	case "gemini":
		return llm.NewGeminiAdapter(ctx, secrets.GoogleKey, cfg.Model)
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

// NewObjectFetcher builds an S3/R2 client when a bucket is configured, otherwise nil.
func NewObjectFetcher(ctx context.Context, cfg config.CorpusConfig, secrets config.Secrets) (ports.ObjectFetcher, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = corpus.R2Endpoint(cfg.AccountID)
	}
	return corpus.NewS3Fetcher(ctx, corpus.S3Config{
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		Endpoint:  endpoint,
		AccessKey: secrets.R2AccessKey,
		SecretKey: secrets.R2SecretKey,
	})
}

// NewCorpusSource picks a file, an object or the embedded corpus, in that order.
func NewCorpusSource(cfg config.CorpusConfig, fetcher ports.ObjectFetcher) (ports.CorpusSource, error) {
	switch {
	case cfg.Path != "":
		return corpus.NewFileSource(cfg.Path), nil
	case cfg.Key != "":
		if fetcher == nil {
			return nil, fmt.Errorf("corpus key %q requires a bucket", cfg.Key)
		}
		return corpus.NewObjectSource(fetcher, cfg.Key), nil
	}
	return corpus.EmbeddedSource{}, nil
}

// Core is what both the API server and the queue worker need.
type Core struct {
	Engine    *usecases.Engine
	Generator *usecases.Generator // nil when generation is disabled
	Analyze   *usecases.AnalyzeUseCase
	Parser    ports.DocumentParser
	Fetcher   ports.ObjectFetcher
	Corpus    ports.CorpusSource
	Tools     *matching.ToolExtractor
}

// NewCore builds the engine and analysis pipeline. The engine is not loaded yet.
func NewCore(ctx context.Context, cfg config.Config, secrets config.Secrets) (*Core, error) {
	service, err := NewEmbeddingService(ctx, cfg.Embedding, secrets)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	metric, err := vectordb.ParseMetric(cfg.Index.Metric)
	if err != nil {
		return nil, err
	}
	engine := usecases.NewEngine(
		usecases.NewEmbedder(service, cfg.Embedding.BatchSize),
		vectordb.NewFlatIndex(metric, 0),
	)

	var gen *usecases.Generator
	llmService, err := NewLLMService(ctx, cfg.LLM, secrets)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	if llmService != nil {
		gen = usecases.NewGenerator(llmService, cfg.LLM.Timeout)
	} else {
		log.Printf("[INFO] Text generation disabled")
	}

	fetcher, err := NewObjectFetcher(ctx, cfg.Corpus, secrets)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	source, err := NewCorpusSource(cfg.Corpus, fetcher)
	if err != nil {
		return nil, err
	}

	vocabulary := cfg.Tools.Vocabulary
	if len(vocabulary) == 0 {
		vocabulary = matching.DefaultTools
	}
	tools, err := matching.NewToolExtractor(vocabulary)
	if err != nil {
		return nil, fmt.Errorf("tools vocabulary: %w", err)
	}

	return &Core{
		Engine:    engine,
		Generator: gen,
		Analyze:   usecases.NewAnalyzeUseCase(engine, tools, gen),
		Parser:    parser.NewMultiParser(),
		Fetcher:   fetcher,
		Corpus:    source,
		Tools:     tools,
	}, nil
}

// Load builds the reference index. It blocks until the engine is ready or failed.
func (c *Core) Load(ctx context.Context) error {
	return c.Engine.Load(ctx, c.Corpus)
}

// App is the full API application.
type App struct {
	*Core
	Services httpserver.Services
	Store    *store.SQLStore
	Inbox    *usecases.ResumeInbox
	watcher  ports.FileWatcher
}

// New builds the API application: core, store, generation features and the optional resume inbox.
func New(ctx context.Context, cfg config.Config, secrets config.Secrets) (*App, error) {
	core, err := NewCore(ctx, cfg, secrets)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	retriever := usecases.NewRAGRetriever(core.Engine)
	selector := usecases.NewResumeSelector(core.Engine, core.Tools)
	a := &App{Core: core, Store: db}

	if cfg.Inbox.Dir != "" {
		fileLoader := loader.NewFileLoader(core.Parser)
		w, err := filewatcher.NewFSNotifyWatcher(fileLoader.SupportedExtensions())
		if err != nil {
			db.Close()
			return nil, err
		}
		a.watcher = w
		a.Inbox = usecases.NewResumeInbox(cfg.Inbox.Dir, fileLoader, w, selector)
	}

	a.Services = httpserver.Services{
		Engine:    core.Engine,
		Analyze:   core.Analyze,
		Selector:  selector,
		Retriever: retriever,
		Suggest:   usecases.NewSuggestUseCase(retriever, core.Generator, cfg.Retrieval.SuggestK),
		Star:      usecases.NewStarUseCase(retriever, core.Generator, db, cfg.Retrieval.StarK),
		Tracker:   usecases.NewTrackerUseCase(db),
		Inbox:     a.Inbox,
		Parser:    core.Parser,
	}
	return a, nil
}

// Close releases the store and the file watcher.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			log.Printf("[WARN] Stopping inbox watcher: %v", err)
			errs = append(errs, fmt.Errorf("watcher: %w", err))
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	return errors.Join(errs...)
}
