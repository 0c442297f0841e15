package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// Storage persists host asset blobs. The local backend serves development
// against a directory on disk; the S3 backend keeps assets in a bucket for
// self-hosted deployments.
type Storage interface {
	// Put stores data under key. ErrKeyExists is returned when the key is taken and overwrite is off,
	// ErrTooLarge when data exceeds opts.MaxSize.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error
	// Get returns the object content and metadata. The caller closes the reader. ErrNotFound is
	// returned for missing keys.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns an address the host can fetch the object from within the given validity window.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}

// PutOptions configures how an object is stored. A zero MaxSize means
// unlimited.
type PutOptions struct {
	ContentType string
	MaxSize     int64
	Overwrite   bool
}

// ObjectInfo is the metadata of a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

var (
	ErrNotFound   = errors.New("object not found")
	ErrKeyExists  = errors.New("object already exists")
	ErrTooLarge   = errors.New("object exceeds size limit")
	ErrInvalidKey = errors.New("invalid storage key")
)

// validateKey rejects empty keys and path traversal.
func validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

// readLimited buffers data, failing with ErrTooLarge past maxSize.
func readLimited(data io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(data)
	}

	buf, err := io.ReadAll(io.LimitReader(data, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > maxSize {
		return nil, ErrTooLarge
	}

	return buf, nil
}
