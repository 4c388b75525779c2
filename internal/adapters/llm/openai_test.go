package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIAdapter_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "Three bullets"},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	adapter, err := NewOpenAIAdapter("test-key", server.URL+"/v1", "")
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	text, err := adapter.Generate(context.Background(), "improve this")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "Three bullets" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestOpenAIAdapter_GenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	adapter, _ := NewOpenAIAdapter("test-key", server.URL+"/v1", "m")
	ch, err := adapter.GenerateStream(context.Background(), "hi")
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	var sb strings.Builder
	done := false
	for tok := range ch {
		if tok.Error != nil {
			t.Fatalf("unexpected stream error: %v", tok.Error)
		}
		sb.WriteString(tok.Content)
		done = done || tok.Done
	}
	if sb.String() != "Hello" || !done {
		t.Errorf("unexpected stream %q (done=%v)", sb.String(), done)
	}
}

func TestOpenAIAdapter_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIAdapter("", "", ""); err == nil {
		t.Error("expected error without API key")
	}
}

func TestGeminiAdapter_RequiresKey(t *testing.T) {
	if _, err := NewGeminiAdapter(context.Background(), "", ""); err == nil {
		t.Error("expected error without API key")
	}
}
