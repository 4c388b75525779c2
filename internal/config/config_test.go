package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careercraft.toml")
	os.WriteFile(path, []byte(`
[embedding]
provider = "hash"
dimension = 128

[llm]
provider = "none"
timeout = "30s"

[index]
metric = "cosine"

[retrieval]
suggest_k = 7

[tools]
vocabulary = ["Go", "Kubernetes"]
`), 0644)

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Embedding.Provider != "hash" || cfg.Embedding.Dimension != 128 {
		t.Errorf("embedding not applied: %+v", cfg.Embedding)
	}
	if cfg.LLM.Provider != "none" || cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("llm not applied: %+v", cfg.LLM)
	}
	if cfg.Index.Metric != "cosine" || cfg.Retrieval.SuggestK != 7 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.Tools.Vocabulary) != 2 || cfg.Tools.Vocabulary[0] != "Go" {
		t.Errorf("tools not applied: %v", cfg.Tools.Vocabulary)
	}
	// Untouched sections keep their defaults.
	if cfg.Retrieval.StarK != 3 || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CAREERCRAFT_EMBEDDING_PROVIDER", "openai")
	t.Setenv("CAREERCRAFT_STAR_K", "4")
	t.Setenv("CAREERCRAFT_LLM_TIMEOUT", "45s")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("R2_BUCKET", "corpus-bucket")

	cfg, secrets, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Embedding.Provider != "openai" || cfg.Retrieval.StarK != 4 || cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if secrets.OpenAIKey != "sk-test" {
		t.Errorf("secret not read: %+v", secrets)
	}
	if cfg.Corpus.Bucket != "corpus-bucket" {
		t.Errorf("R2 bucket not read: %q", cfg.Corpus.Bucket)
	}
}

func TestLoad_BadEnvInt(t *testing.T) {
	t.Setenv("CAREERCRAFT_SUGGEST_K", "five")
	if _, _, err := Load(""); err == nil || !strings.Contains(err.Error(), "SUGGEST_K") {
		t.Errorf("expected SUGGEST_K error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, _, err := Load("/nonexistent/careercraft.toml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"embedding provider", func(c *Config) { c.Embedding.Provider = "faiss" }},
		{"llm provider", func(c *Config) { c.LLM.Provider = "claude" }},
		{"metric", func(c *Config) { c.Index.Metric = "dot" }},
		{"driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"suggest k", func(c *Config) { c.Retrieval.SuggestK = 0 }},
		{"star k", func(c *Config) { c.Retrieval.StarK = -1 }},
		{"batch size", func(c *Config) { c.Embedding.BatchSize = 0 }},
		{"timeout", func(c *Config) { c.LLM.Timeout = 0 }},
		{"key without bucket", func(c *Config) { c.Corpus.Key = "examples.json" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
