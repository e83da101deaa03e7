// Package artifacts exports generated plans as files and stores them on the
// local filesystem or in S3-compatible object storage. A Store returns a
// reference string that is saved on the plan row.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tbourn/go-training-planner/internal/config"
)

// Store persists an artifact body under key and returns its reference.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (ref string, err error)
}

// ErrInvalidKey is returned for empty keys or keys escaping the store root.
var ErrInvalidKey = errors.New("artifacts: invalid key")

// LocalStore writes artifacts below Dir. References are file:// URLs.
type LocalStore struct {
	Dir string
}

// NewLocalStore returns a LocalStore rooted at dir.
func NewLocalStore(dir string) *LocalStore { return &LocalStore{Dir: dir} }

// Put writes body to Dir/key, creating directories as needed. The write goes
// to a temp file first and is renamed into place.
func (s *LocalStore) Put(ctx context.Context, key string, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename artifact: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// cleanKey rejects keys that are empty, absolute or climb out of the root.
func cleanKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" || strings.HasPrefix(k, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(k, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	return k, nil
}

// New builds the Store selected by cfg. The "none" backend yields a nil
// Store, which disables export.
func New(ctx context.Context, cfg config.ArtifactConfig) (Store, error) {
	switch cfg.Backend {
	case config.ArtifactBackendNone:
		return nil, nil
	case config.ArtifactBackendLocal:
		return NewLocalStore(cfg.Dir), nil
	case config.ArtifactBackendS3:
		return NewS3Store(ctx, cfg.S3)
	}
	return nil, fmt.Errorf("artifacts: unknown backend %q", cfg.Backend)
}
