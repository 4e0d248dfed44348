package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ObjectStore persists original image payloads on local disk and hands back
// the URL path they are served under.
type ObjectStore struct {
	root    string
	baseURL string
}

// NewObjectStore creates an object store rooted at dir. Stored objects are
// addressable under baseURL (e.g. "/static/media").
func NewObjectStore(dir, baseURL string) (*ObjectStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("no permission to create media directory %s, check directory ownership: %w", dir, err)
		}
		return nil, fmt.Errorf("failed to create media directory %s, check the configured data dir: %w", dir, err)
	}
	return &ObjectStore{root: dir, baseURL: baseURL}, nil
}

// Store writes data under lectures/{userID}/{timestamp}_{randomSuffix}_{filename}
// and returns the URL the object is served at.
func (o *ObjectStore) Store(data []byte, userID, filename string) (string, error) {
	suffix := uuid.NewString()[:8]
	objectPath := filepath.Join("lectures", userID, fmt.Sprintf("%d_%s_%s", time.Now().Unix(), suffix, filepath.Base(filename)))

	fullPath := filepath.Join(o.root, objectPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("no permission to write under %s, check directory ownership: %w", o.root, err)
		}
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("no permission to store image, check directory ownership: %w", err)
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return o.baseURL + "/" + filepath.ToSlash(objectPath), nil
}

// Resolve maps a served URL back to the file path on disk, or false when
// the URL is outside this store.
func (o *ObjectStore) Resolve(url string) (string, bool) {
	prefix := o.baseURL + "/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return "", false
	}
	rel := filepath.Clean(url[len(prefix):])
	if rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", false
	}
	return filepath.Join(o.root, rel), true
}
