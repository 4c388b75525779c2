package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIAdapter_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}

		// Out of order on purpose: the adapter must place vectors by index.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]interface{}{
				{"object": "embedding", "index": 1, "embedding": []float32{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float32{1, 0}},
			},
		})
	}))
	defer server.Close()

	adapter, err := NewOpenAIAdapter("test-key", server.URL+"/v1", "")
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	vectors, err := adapter.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Errorf("vectors not ordered by index: %v", vectors)
	}
}

func TestOpenAIAdapter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	adapter, _ := NewOpenAIAdapter("test-key", server.URL+"/v1", "text-embedding-3-small")
	if _, err := adapter.Embed(context.Background(), "hello"); err == nil {
		t.Error("should error on 401")
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
