package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/finbox-in/imagegen/internal/pkg/logger"
)

var ErrInvalidName = errors.New("invalid blob name")

// Store uploads generated artifacts and returns the URL they are served at.
type Store interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// LocalStore keeps blobs in a directory that the HTTP server also serves
// statically under baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	logger := logger.LoggerFromContext(ctx)

	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close blob %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to store blob %s: %w", name, err)
	}

	blobURL := s.baseURL + "/" + url.PathEscape(name)
	logger.Infof("Blob stored: %s (%d bytes)", blobURL, len(data))
	return blobURL, nil
}
