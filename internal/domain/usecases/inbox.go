package usecases

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// ResumeInbox keeps the parsed contents of a directory of resumes current.
// It feeds the resume picker: drop files into the directory, then select the
// best one for a job description.
type ResumeInbox struct {
	dir      string
	loader   ports.DocumentLoader
	watcher  ports.FileWatcher
	selector *ResumeSelector

	mu   sync.RWMutex
	docs map[string]entities.Document // keyed by path
}

// NewResumeInbox creates an inbox over dir. watcher may be nil for a one-off scan.
func NewResumeInbox(dir string, loader ports.DocumentLoader, watcher ports.FileWatcher, selector *ResumeSelector) *ResumeInbox {
	return &ResumeInbox{
		dir:      dir,
		loader:   loader,
		watcher:  watcher,
		selector: selector,
		docs:     make(map[string]entities.Document),
	}
}

// Dir returns the watched directory.
func (b *ResumeInbox) Dir() string {
	return b.dir
}

// Scan loads every supported file currently in the directory.
func (b *ResumeInbox) Scan(ctx context.Context) error {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return fmt.Errorf("reading inbox %s: %w", b.dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !b.supported(e.Name()) {
			continue
		}
		b.load(ctx, filepath.Join(b.dir, e.Name()))
	}
	log.Printf("[INFO] Resume inbox %s holds %d documents", b.dir, b.Len())
	return nil
}

// Run scans the directory, then applies file events until ctx ends.
func (b *ResumeInbox) Run(ctx context.Context) error {
	if err := b.Scan(ctx); err != nil {
		return err
	}
	if b.watcher == nil {
		return nil
	}

	events, err := b.watcher.Watch(ctx, b.dir)
	if err != nil {
		return fmt.Errorf("watching inbox: %w", err)
	}

	for ev := range events {
		b.Apply(ctx, ev)
	}
	return ctx.Err()
}

// Apply updates the inbox for one file event.
func (b *ResumeInbox) Apply(ctx context.Context, ev ports.FileEvent) {
	switch ev.Operation {
	case ports.FileCreated, ports.FileModified:
		b.load(ctx, ev.Path)
	case ports.FileDeleted:
		b.mu.Lock()
		delete(b.docs, ev.Path)
		b.mu.Unlock()
		log.Printf("[INFO] Removed %s from resume inbox", filepath.Base(ev.Path))
	}
}

func (b *ResumeInbox) load(ctx context.Context, path string) {
	doc, err := b.loader.Load(ctx, path)
	if err != nil {
		log.Printf("[WARN] Skipping %s: %v", filepath.Base(path), err)
		return
	}
	if doc.IsBlank() {
		log.Printf("[WARN] Skipping %s: no text extracted", filepath.Base(path))
		return
	}

	b.mu.Lock()
	b.docs[path] = doc
	b.mu.Unlock()
	log.Printf("[DEBUG] Loaded %s into resume inbox (%d chars)", doc.Name, len(doc.Content))
}

func (b *ResumeInbox) supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range b.loader.SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// Len returns how many documents the inbox holds.
func (b *ResumeInbox) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.docs)
}

// Documents returns a snapshot of the inbox sorted by name.
func (b *ResumeInbox) Documents() []entities.Document {
	b.mu.RLock()
	docs := make([]entities.Document, 0, len(b.docs))
	for _, d := range b.docs {
		docs = append(docs, d)
	}
	b.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs
}

// SelectBest picks the inbox resume that best matches the job description.
func (b *ResumeInbox) SelectBest(ctx context.Context, jobDescription string) (entities.Document, []entities.MatchResult, error) {
	docs := b.Documents()
	if len(docs) == 0 {
		return entities.Document{}, nil, entities.ErrNoCandidates
	}

	best, results, err := b.selector.SelectBest(ctx, docs, entities.NewDocument("job description", jobDescription))
	if err != nil {
		return entities.Document{}, nil, err
	}
	return docs[best], results, nil
}
