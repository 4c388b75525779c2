// Package parser provides document parsing adapters implementing ports.DocumentParser.
// Resumes arrive as plain text, PDF or DOCX; every parser yields plain text.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// TextParser passes plain text through.
type TextParser struct{}

// Parse returns data as text. Invalid UTF-8 is rejected.
func (TextParser) Parse(ctx context.Context, data []byte, filename string) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8 text", filename)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// SupportedFormats returns formats this parser handles.
func (TextParser) SupportedFormats() []string {
	return []string{"txt", "md", "markdown"}
}

// MultiParser dispatches on the file extension.
type MultiParser struct {
	parsers map[string]ports.DocumentParser
}

// NewMultiParser registers the given parsers under each of their formats.
// With no parsers it registers text, PDF and DOCX.
func NewMultiParser(parsers ...ports.DocumentParser) *MultiParser {
	if len(parsers) == 0 {
		parsers = []ports.DocumentParser{TextParser{}, NewPDFParser(), NewDocxParser()}
	}
	m := &MultiParser{parsers: make(map[string]ports.DocumentParser)}
	for _, p := range parsers {
		for _, f := range p.SupportedFormats() {
			m.parsers[strings.ToLower(f)] = p
		}
	}
	return m
}

// Parse extracts text using the parser registered for the filename's extension.
func (m *MultiParser) Parse(ctx context.Context, data []byte, filename string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	p, ok := m.parsers[format]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := p.Parse(ctx, data, filename)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", filename, err)
	}
	return cleanText(text), nil
}

// SupportedFormats returns every registered format, sorted.
func (m *MultiParser) SupportedFormats() []string {
	formats := make([]string, 0, len(m.parsers))
	for f := range m.parsers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// cleanText drops control characters left over from binary formats and trims each line.
func cleanText(content string) string {
	var cleaned strings.Builder
	for _, r := range content {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) {
			cleaned.WriteRune(r)
		}
	}

	lines := strings.Split(cleaned.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
