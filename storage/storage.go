package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Download when no object exists at the key.
var ErrNotFound = errors.New("storage: object not found")

// FileInfo describes a stored object.
type FileInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is an object store keyed by slash-separated paths.
type Storage interface {
	// Upload writes the reader's content to key, replacing any existing object.
	Upload(ctx context.Context, key string, r io.Reader) error

	// Download opens the object at key. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// List returns objects whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}
