// Package storage provides the attachment blob store. Files are opaque
// blobs keyed by a generated path; the original filename is kept by the
// owning record.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/finbooks/salesdesk/internal/config"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Store persists attachment blobs.
type Store interface {
	// Save writes content and returns the generated storage path.
	Save(originalName string, content io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
}

type diskStore struct {
	root string
}

// NewDiskStore creates a filesystem-backed store rooted at dir.
func NewDiskStore(dir string) (Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &diskStore{root: dir}, nil
}

func (s *diskStore) Save(originalName string, content io.Reader) (string, error) {
	ext := filepath.Ext(originalName)
	name := uuid.NewString() + ext
	full := filepath.Join(s.root, name)

	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return name, nil
}

func (s *diskStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.Base(path)))
}

func (s *diskStore) Delete(path string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Base(path)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var Module = fx.Module("storage",
	fx.Provide(func(cfg config.Config) (Store, error) {
		return NewDiskStore(cfg.StorageDir)
	}),
)
