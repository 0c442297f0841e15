package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reflectup/internal/adapters/file"

	"github.com/rs/zerolog/log"
)

// Local stores objects under a directory on disk.
type Local struct {
	basePath string
	baseURL  string
}

// NewLocal creates the base directory if needed. baseURL, when set, prefixes
// the addresses returned by URL; otherwise file URLs are handed out.
func NewLocal(basePath, baseURL string) (*Local, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("error resolving storage path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("error creating storage path: %w", err)
	}

	log.Debug().Str("path", abs).Msg("local storage ready")

	return &Local{basePath: abs, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *Local) Put(_ context.Context, key string, data io.Reader, opts PutOptions) error {
	if err := validateKey(key); err != nil {
		return err
	}

	path := s.objectPath(key)
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("put %q: %w", key, ErrKeyExists)
		}
	}

	buf, err := readLimited(data, opts.MaxSize)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}

	if err := file.WriteAtomic(path, buf); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}

	return nil
}

func (s *Local) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(s.objectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ObjectInfo{}, fmt.Errorf("get %q: %w", key, ErrNotFound)
		}
		return nil, ObjectInfo{}, fmt.Errorf("get %q: %w", key, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("get %q: %w", key, err)
	}

	info := ObjectInfo{
		Key:          key,
		Size:         stat.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: stat.ModTime(),
	}

	return f, info, nil
}

func (s *Local) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := os.Remove(s.objectPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	return nil
}

func (s *Local) URL(ctx context.Context, key string, _ time.Duration) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	exists, err := s.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("url %q: %w", key, ErrNotFound)
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + key, nil
	}

	return "file://" + s.objectPath(key), nil
}

func (s *Local) Exists(_ context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	if _, err := os.Stat(s.objectPath(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *Local) objectPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}
