package parser

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	tabTag       = regexp.MustCompile(`<w:tab\s*/>`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
)

// DocxParser extracts paragraph text from Word documents with nguyenthenguyen/docx.
type DocxParser struct{}

// NewDocxParser creates a DOCX parser.
func NewDocxParser() *DocxParser {
	return &DocxParser{}
}

// Parse reads the document body. Paragraphs become lines.
func (p *DocxParser) Parse(ctx context.Context, data []byte, filename string) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripDocumentXML(doc.Editable().GetContent()), nil
}

// SupportedFormats returns formats this parser handles.
func (p *DocxParser) SupportedFormats() []string {
	return []string{"docx"}
}

// stripDocumentXML turns WordprocessingML into plain text, one line per paragraph.
func stripDocumentXML(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabTag.ReplaceAllString(content, "\t")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, strings.TrimSpace(l))
		}
	}
	return strings.Join(out, "\n")
}
