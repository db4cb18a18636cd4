package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	want := []byte(`{"hello":"world"}`)
	if err := store.Put("tasks", want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Get: got %q, want %q", got, want)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := store.Put("tasks", []byte("old")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put("tasks", []byte("new")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Get: got %q, want %q", got, "new")
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if _, err := store.Get("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: got %v, want ErrNotFound", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := store.Put("tasks", []byte("data")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete("tasks"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get("tasks"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: got %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete("tasks"); err != nil {
		t.Errorf("Delete missing key: got %v, want nil", err)
	}
}

func TestFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := store.Put("tasks", []byte("data")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents: got %v, want [tasks.json]", names)
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tasks", "tasks"},
		{"my tasks", "my_tasks"},
		{"a/b", "a_b"},
		{"", "default"},
		{"///", "default"},
	}

	for _, tt := range tests {
		if got := sanitizeKey(tt.in); got != tt.want {
			t.Errorf("sanitizeKey(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("tasks"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: got %v, want ErrNotFound", err)
	}

	if err := m.Put("tasks", []byte("data")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := m.Get("tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("Get: got %q, want %q", got, "data")
	}

	m.FailWrites = true
	if err := m.Put("tasks", []byte("other")); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("Put with FailWrites: got %v, want ErrWriteFailed", err)
	}
}
