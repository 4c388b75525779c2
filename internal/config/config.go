// Package config loads application settings.
//
// Sources are layered: built-in defaults, an optional TOML file, a .env file,
// then environment variables. Later sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every application environment variable.
const EnvPrefix = "CAREERCRAFT_"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Index     IndexConfig     `toml:"index"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Corpus    CorpusConfig    `toml:"corpus"`
	Store     StoreConfig     `toml:"store"`
	Inbox     InboxConfig     `toml:"inbox"`
	Queue     QueueConfig     `toml:"queue"`
	Tools     ToolsConfig     `toml:"tools"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// EmbeddingConfig selects the sentence embedding backend.
type EmbeddingConfig struct {
	Provider  string `toml:"provider"` // ollama, openai, gemini, hash
	Model     string `toml:"model"`
	URL       string `toml:"url"` // empty uses the provider default
	BatchSize int    `toml:"batch_size"`
	Dimension int    `toml:"dimension"` // hash provider only
}

// LLMConfig selects the text generation backend. Provider "none" disables generation.
type LLMConfig struct {
	Provider string        `toml:"provider"` // ollama, openai, gemini, none
	Model    string        `toml:"model"`
	URL      string        `toml:"url"`
	Timeout  time.Duration `toml:"timeout"`
}

type IndexConfig struct {
	Metric string `toml:"metric"` // l2 or cosine
}

type RetrievalConfig struct {
	SuggestK int `toml:"suggest_k"`
	StarK    int `toml:"star_k"`
}

// CorpusConfig locates the reference examples. With no path or key the embedded corpus is used.
type CorpusConfig struct {
	Path      string `toml:"path"`
	Bucket    string `toml:"bucket"`
	Key       string `toml:"key"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccountID string `toml:"account_id"`
}

type StoreConfig struct {
	Driver string `toml:"driver"` // sqlite3 or postgres
	DSN    string `toml:"dsn"`
}

// ToolsConfig overrides the tool vocabulary. Empty keeps the built-in list.
type ToolsConfig struct {
	Vocabulary []string `toml:"vocabulary"`
}

type InboxConfig struct {
	Dir string `toml:"dir"`
}

type QueueConfig struct {
	URL      string `toml:"url"`
	Queue    string `toml:"queue"`
	Exchange string `toml:"exchange"`
	Workers  int    `toml:"workers"`
}

// Secrets are only read from the environment.
type Secrets struct {
	OpenAIKey   string
	GoogleKey   string
	R2AccessKey string
	R2SecretKey string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:    ServerConfig{Addr: ":8080"},
		Embedding: EmbeddingConfig{Provider: "ollama", BatchSize: 32},
		LLM:       LLMConfig{Provider: "ollama", Timeout: 2 * time.Minute},
		Index:     IndexConfig{Metric: "l2"},
		Retrieval: RetrievalConfig{SuggestK: 5, StarK: 3},
		Store:     StoreConfig{Driver: "sqlite3", DSN: "./data/careercraft.db"},
		Queue:     QueueConfig{Queue: "analysis_requests", Exchange: "analysis_results", Workers: 2},
	}
}

// Load builds the configuration. path may be empty; a missing .env is ignored.
func Load(path string) (Config, Secrets, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, Secrets{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, Secrets{}, fmt.Errorf("reading .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, Secrets{}, err
	}

	secrets := Secrets{
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		GoogleKey:   os.Getenv("GOOGLE_API_KEY"),
		R2AccessKey: os.Getenv("R2_ACCESS_KEY"),
		R2SecretKey: os.Getenv("R2_SECRET_KEY"),
	}
	if cfg.Corpus.AccountID == "" {
		cfg.Corpus.AccountID = os.Getenv("R2_ACCOUNT_ID")
	}
	if cfg.Corpus.Bucket == "" {
		cfg.Corpus.Bucket = os.Getenv("R2_BUCKET")
	}

	return cfg, secrets, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"ADDR":               &cfg.Server.Addr,
		"EMBEDDING_PROVIDER": &cfg.Embedding.Provider,
		"EMBEDDING_MODEL":    &cfg.Embedding.Model,
		"EMBEDDING_URL":      &cfg.Embedding.URL,
		"LLM_PROVIDER":       &cfg.LLM.Provider,
		"LLM_MODEL":          &cfg.LLM.Model,
		"LLM_URL":            &cfg.LLM.URL,
		"INDEX_METRIC":       &cfg.Index.Metric,
		"CORPUS_PATH":        &cfg.Corpus.Path,
		"CORPUS_BUCKET":      &cfg.Corpus.Bucket,
		"CORPUS_KEY":         &cfg.Corpus.Key,
		"CORPUS_ENDPOINT":    &cfg.Corpus.Endpoint,
		"STORE_DRIVER":       &cfg.Store.Driver,
		"STORE_DSN":          &cfg.Store.DSN,
		"INBOX_DIR":          &cfg.Inbox.Dir,
		"QUEUE_URL":          &cfg.Queue.URL,
		"QUEUE_NAME":         &cfg.Queue.Queue,
		"QUEUE_EXCHANGE":     &cfg.Queue.Exchange,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"EMBEDDING_BATCH_SIZE": &cfg.Embedding.BatchSize,
		"EMBEDDING_DIMENSION":  &cfg.Embedding.Dimension,
		"SUGGEST_K":            &cfg.Retrieval.SuggestK,
		"STAR_K":               &cfg.Retrieval.StarK,
		"QUEUE_WORKERS":        &cfg.Queue.Workers,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "TOOLS"); ok {
		cfg.Tools.Vocabulary = nil
		for _, term := range strings.Split(v, ",") {
			if term = strings.TrimSpace(term); term != "" {
				cfg.Tools.Vocabulary = append(cfg.Tools.Vocabulary, term)
			}
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "LLM_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sLLM_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.LLM.Timeout = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Embedding.Provider {
	case "ollama", "openai", "gemini", "hash":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case "ollama", "openai", "gemini", "none":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Index.Metric {
	case "l2", "cosine":
	default:
		return fmt.Errorf("unknown index metric %q", c.Index.Metric)
	}
	switch c.Store.Driver {
	case "sqlite3", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Retrieval.SuggestK < 1 || c.Retrieval.StarK < 1 {
		return fmt.Errorf("retrieval k must be positive (suggest_k=%d, star_k=%d)", c.Retrieval.SuggestK, c.Retrieval.StarK)
	}
	if c.Embedding.BatchSize < 1 {
		return fmt.Errorf("embedding batch_size must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	if c.Corpus.Key != "" && c.Corpus.Bucket == "" {
		return fmt.Errorf("corpus key %q requires a bucket", c.Corpus.Key)
	}
	return nil
}
