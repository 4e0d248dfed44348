package storage

import (
	"os"
	"regexp"
	"testing"
)

func TestObjectStorePathConvention(t *testing.T) {
	store, err := NewObjectStore(t.TempDir(), "/static/media")
	if err != nil {
		t.Fatalf("NewObjectStore failed: %v", err)
	}

	url, err := store.Store([]byte("jpeg bytes"), "user-1", "whiteboard.jpg")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	pattern := regexp.MustCompile(`^/static/media/lectures/user-1/\d+_[0-9a-f]{8}_whiteboard\.jpg$`)
	if !pattern.MatchString(url) {
		t.Errorf("URL %q does not match path convention", url)
	}

	path, ok := store.Resolve(url)
	if !ok {
		t.Fatalf("Resolve failed for %q", url)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Stored object unreadable: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("Stored payload mismatch: %q", data)
	}
}

func TestObjectStoreUniqueSuffixes(t *testing.T) {
	store, err := NewObjectStore(t.TempDir(), "/static/media")
	if err != nil {
		t.Fatalf("NewObjectStore failed: %v", err)
	}

	first, err := store.Store([]byte("a"), "u", "page.jpg")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	second, err := store.Store([]byte("b"), "u", "page.jpg")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if first == second {
		t.Errorf("Expected distinct URLs for same filename, got %q twice", first)
	}
}

func TestObjectStoreResolveRejectsOutsiders(t *testing.T) {
	store, err := NewObjectStore(t.TempDir(), "/static/media")
	if err != nil {
		t.Fatalf("NewObjectStore failed: %v", err)
	}

	tests := []string{
		"/elsewhere/lectures/u/1_a_b.jpg",
		"/static/media/../../../etc/passwd",
		"/static/media/",
	}
	for _, url := range tests {
		if path, ok := store.Resolve(url); ok {
			t.Errorf("Resolve accepted %q -> %q", url, path)
		}
	}
}
