// Package loader reads resume files from disk into documents.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xcro3dile/careercraft/internal/adapters/parser"
	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// MaxFileSize bounds how much of a single file is read.
const MaxFileSize = 10 << 20

// FileLoader loads files and extracts their text with a DocumentParser.
type FileLoader struct {
	parser ports.DocumentParser
}

// NewFileLoader creates a loader. A nil parser means the default text, PDF and DOCX set.
func NewFileLoader(p ports.DocumentParser) *FileLoader {
	if p == nil {
		p = parser.NewMultiParser()
	}
	return &FileLoader{parser: p}
}

// Load reads and parses the file at path.
func (l *FileLoader) Load(ctx context.Context, path string) (entities.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return entities.Document{}, err
	}
	if info.IsDir() {
		return entities.Document{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return entities.Document{}, fmt.Errorf("%s exceeds %d bytes", path, MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Document{}, err
	}

	content, err := l.parser.Parse(ctx, data, filepath.Base(path))
	if err != nil {
		return entities.Document{}, err
	}

	return entities.Document{
		ID:        documentID(path),
		Name:      filepath.Base(path),
		Path:      path,
		Content:   content,
		CreatedAt: info.ModTime(),
	}, nil
}

// SupportedExtensions returns the parser's formats as dotted extensions.
func (l *FileLoader) SupportedExtensions() []string {
	formats := l.parser.SupportedFormats()
	exts := make([]string, len(formats))
	for i, f := range formats {
		exts[i] = "." + f
	}
	return exts
}

// documentID is stable per path so a re-created file keeps its identity.
func documentID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
