// Package corpus provides the reference example sources the retrieval index is built from.
//
// Every source yields the same format: a JSON array of strings, one resume bullet per entry.
package corpus

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_examples.json
var defaultExamples []byte

// Parse decodes a JSON array of example strings. Blank entries are rejected.
func Parse(r io.Reader) ([]string, error) {
	var examples []string
	if err := json.NewDecoder(r).Decode(&examples); err != nil {
		return nil, fmt.Errorf("decoding examples: %w", err)
	}
	for i, ex := range examples {
		if strings.TrimSpace(ex) == "" {
			return nil, fmt.Errorf("example %d is blank", i)
		}
	}
	if examples == nil {
		examples = []string{}
	}
	return examples, nil
}

// FileSource reads examples from a JSON file on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the given JSON file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Examples reads and parses the file.
func (s *FileSource) Examples(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	examples, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return examples, nil
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.path }

// EmbeddedSource serves the corpus compiled into the binary.
type EmbeddedSource struct{}

// Examples parses the embedded default corpus.
func (EmbeddedSource) Examples(ctx context.Context) ([]string, error) {
	return Parse(bytes.NewReader(defaultExamples))
}

// Name identifies the embedded corpus.
func (EmbeddedSource) Name() string { return "embedded" }
