package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLoader_LoadTxtFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	os.WriteFile(path, []byte("• Built dashboards in SQL\n• Automated reports\n"), 0644)

	doc, err := NewFileLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if doc.Content != "• Built dashboards in SQL\n• Automated reports" {
		t.Errorf("unexpected content: %q", doc.Content)
	}
	if doc.Name != "resume.txt" || doc.Path != path {
		t.Errorf("unexpected name/path: %s %s", doc.Name, doc.Path)
	}
	if doc.ID == "" || doc.ID != documentID(path) {
		t.Errorf("unexpected id %q", doc.ID)
	}
	if doc.CreatedAt.IsZero() {
		t.Error("expected mod time")
	}
}

func TestFileLoader_SupportedExtensions(t *testing.T) {
	exts := NewFileLoader(nil).SupportedExtensions()

	want := map[string]bool{".txt": false, ".md": false, ".pdf": false, ".docx": false}
	for _, e := range exts {
		if _, ok := want[e]; ok {
			want[e] = true
		}
	}
	for e, found := range want {
		if !found {
			t.Errorf("%s should be supported", e)
		}
	}
}

func TestFileLoader_Unsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644)

	if _, err := NewFileLoader(nil).Load(context.Background(), path); err == nil {
		t.Error("should error on unsupported type")
	}
}

func TestFileLoader_NonexistentFile(t *testing.T) {
	if _, err := NewFileLoader(nil).Load(context.Background(), "/nonexistent/file.txt"); err == nil {
		t.Error("should error on nonexistent file")
	}
}

func TestFileLoader_Directory(t *testing.T) {
	if _, err := NewFileLoader(nil).Load(context.Background(), t.TempDir()); err == nil {
		t.Error("should error on directory")
	}
}

func TestDocumentID_StablePerPath(t *testing.T) {
	if documentID("/a/resume.pdf") != documentID("/a/resume.pdf") {
		t.Error("id should be deterministic")
	}
	if documentID("/a/resume.pdf") == documentID("/b/resume.pdf") {
		t.Error("different paths should have different ids")
	}
	if len(documentID("/a")) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(documentID("/a")))
	}
}
