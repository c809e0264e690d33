package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestWriteUniqueCreatesDistinctFiles(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	ctx := context.Background()
	a, err := store.WriteUnique(ctx, "output_image", ".png", []byte("a"))
	if err != nil {
		t.Fatalf("WriteUnique() error: %v", err)
	}
	b, err := store.WriteUnique(ctx, "output_image", ".png", []byte("b"))
	if err != nil {
		t.Fatalf("WriteUnique() error: %v", err)
	}
	if a == b {
		t.Fatalf("WriteUnique() returned the same path twice: %s", a)
	}
	name := regexp.MustCompile(`^output_image_[0-9a-f]{32}\.png$`)
	if !name.MatchString(filepath.Base(a)) {
		t.Fatalf("unexpected file name %q", filepath.Base(a))
	}
	data, err := os.ReadFile(a)
	if err != nil || string(data) != "a" {
		t.Fatalf("ReadFile(%s) = %q, %v", a, data, err)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if _, err := store.Write(context.Background(), "nested/cover.png", []byte("png")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "cover.png" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestWriteRejectsTraversalAndCancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	for _, key := range []string{"", "..", "../escape.png", "a/../../escape.png"} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("Write(%q) expected error", key)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "cover.png", []byte("x")); err == nil {
		t.Fatalf("Write() expected context error")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	path, err := store.WriteUnique(context.Background(), "output_image", ".png", []byte("x"))
	if err != nil {
		t.Fatalf("WriteUnique() error: %v", err)
	}
	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still exists after Remove: %v", err)
	}
	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove() of missing file should succeed, got %v", err)
	}
	outside := filepath.Join(t.TempDir(), "other.png")
	if err := store.Remove(outside); err == nil {
		t.Fatalf("Remove() expected error for path outside the store")
	}
}
