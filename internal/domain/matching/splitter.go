// Package matching holds the pure matching algorithms: chunk splitting,
// similarity scoring with mean pooling, and tool vocabulary extraction.
// Nothing in here blocks or touches a model.
package matching

import (
	"fmt"
	"strings"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
)

// bulletMarkers are the separators a resume bullet can start with.
var bulletMarkers = []string{"•", "◦", "▪", "●", "‣", "- "}

var markerReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(bulletMarkers)*2)
	for _, m := range bulletMarkers {
		pairs = append(pairs, m, "\n")
	}
	return strings.NewReplacer(pairs...)
}()

// Split breaks text into bullet-like chunks on line breaks and bullet markers.
// Chunks are trimmed, empty ones are dropped, and order follows the input.
// Splitting any returned chunk again yields exactly that chunk.
func Split(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = markerReplacer.Replace(normalized)

	var chunks []string
	for _, part := range strings.Split(normalized, "\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, part)
	}
	return chunks
}

// SplitDocument splits a document into typed chunks carrying its ID.
func SplitDocument(doc entities.Document) []entities.Chunk {
	parts := Split(doc.Content)
	chunks := make([]entities.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = entities.Chunk{
			ID:         fmt.Sprintf("%s-%d", doc.ID, i),
			DocumentID: doc.ID,
			Content:    p,
			Index:      i,
		}
	}
	return chunks
}

// Texts returns the chunk contents in order.
func Texts(chunks []entities.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	return texts
}
