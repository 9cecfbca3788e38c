package storage

import (
	"context"
	"io"
	"strings"
)

// rootedStore wraps an ObjectStore so that all keys are relative to a base
// prefix inside the store. Pipelines always work with relative keys; the
// base comes from the configured input/output location.
type rootedStore struct {
	store ObjectStore
	base  string
}

func withBase(store ObjectStore, base string) ObjectStore {
	base = strings.Trim(base, "/")
	if base == "" {
		return store
	}
	return &rootedStore{store: store, base: base + "/"}
}

func (s *rootedStore) Identifier() string {
	return s.store.Identifier()
}

func (s *rootedStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.store.List(ctx, s.base+prefix)
	if err != nil {
		return nil, err
	}
	relative := make([]string, 0, len(keys))
	for _, key := range keys {
		relative = append(relative, strings.TrimPrefix(key, s.base))
	}
	return relative, nil
}

func (s *rootedStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.store.Open(ctx, s.base+key)
}

func (s *rootedStore) Put(ctx context.Context, key string, body io.Reader) error {
	return s.store.Put(ctx, s.base+key, body)
}

func (s *rootedStore) DeletePrefix(ctx context.Context, prefix string) error {
	return s.store.DeletePrefix(ctx, s.base+prefix)
}

func (s *rootedStore) Close() error {
	return s.store.Close()
}
