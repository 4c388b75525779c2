package usecases

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// DefaultGenerationTimeout bounds a single LLM generation.
const DefaultGenerationTimeout = 2 * time.Minute

// ErrGenerationDisabled is returned by use cases built without a Generator.
var ErrGenerationDisabled = fmt.Errorf("text generation is disabled: %w", entities.ErrModelUnavailable)

// Generator runs LLM generations as cancellable tasks, separate from scoring.
type Generator struct {
	llm     ports.LLMService
	timeout time.Duration
}

// NewGenerator creates a Generator. A non-positive timeout uses DefaultGenerationTimeout.
func NewGenerator(llm ports.LLMService, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Generator{llm: llm, timeout: timeout}
}

// Task is one in-flight generation.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	text   string
	err    error
}

// Start launches a generation in the background. The task is bound to ctx
// and to the generator timeout, whichever ends first.
func (g *Generator) Start(ctx context.Context, prompt string) *Task {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()

		start := time.Now()
		text, err := g.llm.Generate(ctx, prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			t.err = fmt.Errorf("generating: %w", err)
			log.Printf("[WARN] Generation failed after %v: %v", time.Since(start).Round(time.Millisecond), err)
			return
		}
		t.text = text
		log.Printf("[DEBUG] Generation finished in %v (%d chars)", time.Since(start).Round(time.Millisecond), len(text))
	}()

	return t
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel aborts the generation. It is safe to call more than once.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the task finishes or ctx ends. Ending ctx does not cancel the task.
func (t *Task) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.text, t.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Generate starts a task and waits for it. Ending ctx cancels the task.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	t := g.Start(ctx, prompt)
	defer t.Cancel()
	return t.Wait(ctx)
}

// Stream generates token by token under the generator timeout.
func (g *Generator) Stream(ctx context.Context, prompt string) (<-chan ports.StreamToken, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)

	upstream, err := g.llm.GenerateStream(ctx, prompt)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("starting stream: %w", err)
	}

	out := make(chan ports.StreamToken)
	go func() {
		defer close(out)
		defer cancel()
		for tok := range upstream {
			select {
			case out <- tok:
			case <-ctx.Done():
				return
			}
			if tok.Done {
				return
			}
		}
	}()
	return out, nil
}
