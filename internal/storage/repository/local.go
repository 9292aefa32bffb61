package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalBlobStorage keeps blobs as flat files under a content root directory.
type LocalBlobStorage struct {
	root   string
	logger zerolog.Logger
}

func NewLocalBlobStorage(root string, logger zerolog.Logger) (*LocalBlobStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create content root: %w", err)
	}

	return &LocalBlobStorage{
		root:   root,
		logger: logger,
	}, nil
}

func (s *LocalBlobStorage) Put(ctx context.Context, key string, content []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	s.logger.Debug().Str("key", key).Int("size", len(content)).Msg("Blob written")
	return nil
}

func (s *LocalBlobStorage) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return content, nil
}

func (s *LocalBlobStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}

// resolve rejects keys that would escape the content root.
func (s *LocalBlobStorage) resolve(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, key), nil
}
