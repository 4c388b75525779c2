package usecases

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// EngineState is the lifecycle stage of the matching engine.
type EngineState int

const (
	StateUninitialized EngineState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s EngineState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("EngineState(%d)", int(s))
}

// Engine owns the embedder and the reference index for the process lifetime.
// It is built once at start-up and passed to every component that needs it.
// Ready and failed are terminal; until ready every call fails with ErrModelUnavailable.
type Engine struct {
	embedder *Embedder
	index    ports.VectorIndex

	mu      sync.RWMutex
	state   EngineState
	loadErr error
}

// NewEngine creates an engine in the uninitialized state.
func NewEngine(embedder *Embedder, index ports.VectorIndex) *Engine {
	return &Engine{embedder: embedder, index: index}
}

// State returns the current lifecycle state.
func (e *Engine) State() EngineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Err returns the load failure, if any.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loadErr
}

// Size returns the number of reference examples in the index.
func (e *Engine) Size() int {
	return e.index.Len()
}

// Dimension returns the embedding dimension, 0 while unknown.
func (e *Engine) Dimension() int {
	return e.embedder.Dimension()
}

// Load reads the reference corpus from source and builds the index.
func (e *Engine) Load(ctx context.Context, source ports.CorpusSource) error {
	if err := e.begin(); err != nil {
		return err
	}

	examples, err := source.Examples(ctx)
	if err != nil {
		return e.fail(fmt.Errorf("reading corpus from %s: %w", source.Name(), err))
	}
	log.Printf("[INFO] Loaded %d reference examples from %s", len(examples), source.Name())

	return e.build(ctx, examples)
}

// LoadExamples builds the index from an in-memory corpus.
func (e *Engine) LoadExamples(ctx context.Context, examples []string) error {
	if err := e.begin(); err != nil {
		return err
	}
	return e.build(ctx, examples)
}

func (e *Engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateUninitialized {
		return fmt.Errorf("engine already %s", e.state)
	}
	e.state = StateLoading
	return nil
}

// build encodes the whole corpus before touching the index, so a cancelled
// or failed load leaves the index empty.
func (e *Engine) build(ctx context.Context, examples []string) error {
	start := time.Now()

	vectors, err := e.embedder.Encode(ctx, examples)
	if err != nil {
		return e.fail(fmt.Errorf("encoding corpus: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return e.fail(err)
	}

	entries := make([]entities.IndexEntry, len(examples))
	for i, ex := range examples {
		entries[i] = entities.IndexEntry{Vector: vectors[i], Payload: ex}
	}
	if len(entries) > 0 {
		if err := e.index.Add(entries); err != nil {
			return e.fail(fmt.Errorf("building index: %w", err))
		}
	}

	e.mu.Lock()
	e.state = StateReady
	e.mu.Unlock()

	log.Printf("[INFO] Engine ready: %d examples, dimension %d, took %v",
		len(entries), e.embedder.Dimension(), time.Since(start).Round(time.Millisecond))
	return nil
}

func (e *Engine) fail(err error) error {
	e.mu.Lock()
	e.state = StateFailed
	e.loadErr = err
	e.mu.Unlock()

	log.Printf("[ERROR] Engine load failed: %v", err)
	return err
}

func (e *Engine) ready() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch e.state {
	case StateReady:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: engine failed to load: %v", entities.ErrModelUnavailable, e.loadErr)
	default:
		return fmt.Errorf("%w: engine is %s", entities.ErrModelUnavailable, e.state)
	}
}

// Encode embeds texts once the engine is ready.
func (e *Engine) Encode(ctx context.Context, texts []string) ([]entities.Vector, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return e.embedder.Encode(ctx, texts)
}

// Search queries the reference index once the engine is ready.
func (e *Engine) Search(ctx context.Context, query entities.Vector, k int) ([]entities.Neighbor, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.index.Search(query, k)
}
