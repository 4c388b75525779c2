package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator(&mockLLM{response: "three bullets"}, time.Second)

	text, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "three bullets" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGenerator_Timeout(t *testing.T) {
	g := NewGenerator(&mockLLM{delay: time.Second}, 50*time.Millisecond)

	_, err := g.Generate(context.Background(), "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestGenerator_Cancel(t *testing.T) {
	g := NewGenerator(&mockLLM{delay: time.Second}, time.Minute)

	task := g.Start(context.Background(), "prompt")
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("task did not stop after cancel")
	}

	_, err := task.Wait(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	task.Cancel()
}

func TestGenerator_WaitDoesNotCancelTask(t *testing.T) {
	g := NewGenerator(&mockLLM{response: "done", delay: 100 * time.Millisecond}, time.Second)
	task := g.Start(context.Background(), "prompt")

	short, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := task.Wait(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wait to time out, got %v", err)
	}

	text, err := task.Wait(context.Background())
	if err != nil || text != "done" {
		t.Errorf("expected task to finish with %q, got %q, %v", "done", text, err)
	}
}

func TestGenerator_LLMError(t *testing.T) {
	g := NewGenerator(&mockLLM{err: fmt.Errorf("model overloaded")}, time.Second)

	_, err := g.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("expected LLM error, got %v", err)
	}
}

func TestGenerator_Stream(t *testing.T) {
	g := NewGenerator(&mockLLM{response: "one two"}, time.Second)

	tokens, err := g.Stream(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	var sb strings.Builder
	done := false
	for tok := range tokens {
		sb.WriteString(tok.Content)
		if tok.Done {
			done = true
		}
	}
	if !done {
		t.Error("expected a final token with Done set")
	}
	if sb.String() != "one two " {
		t.Errorf("unexpected stream output %q", sb.String())
	}
}
