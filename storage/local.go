package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localStore struct {
	dir string
}

func newLocalStore(dir string) (*localStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	return &localStore{dir: dir}, nil
}

// cleanKey keeps blob paths inside the storage directory
func (l *localStore) cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	return filepath.Join(l.dir, key), nil
}

func (l *localStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	p, err := l.cleanKey(key)
	if err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create blob file, %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("failed to write blob file, %w", err)
	}

	return f.Close()
}

func (l *localStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := l.cleanKey(key)
	if err != nil {
		return nil, err
	}

	return os.Open(p)
}

func (l *localStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		p, err := l.cleanKey(key)
		if err != nil {
			return err
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete blob %s, %w", key, err)
		}
	}

	return nil
}
