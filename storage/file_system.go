package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const FileSystemStoreIdentifier = "file_system"

// FileSystemStore is an [ObjectStore] rooted at a local directory.
// It backs local runs and tests; keys use forward slashes regardless of OS.
type FileSystemStore struct {
	root string
}

func NewFileSystemStore(root string) *FileSystemStore {
	return &FileSystemStore{root: root}
}

func (s *FileSystemStore) Identifier() string {
	return FileSystemStoreIdentifier
}

func (s *FileSystemStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		key, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key = filepath.ToSlash(key)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list files under %s, %w", s.root, err)
	}
	return keys, nil
}

func (s *FileSystemStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s, %w", key, err)
	}
	return f, nil
}

func (s *FileSystemStore) Put(_ context.Context, key string, body io.Reader) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for file %s, %w", key, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s, %w", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write file %s, %w", key, err)
	}
	return nil
}

func (s *FileSystemStore) DeletePrefix(_ context.Context, prefix string) error {
	path := filepath.Join(s.root, filepath.FromSlash(prefix))
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s, %w", prefix, err)
	}
	return nil
}

func (s *FileSystemStore) Close() error {
	return nil
}
