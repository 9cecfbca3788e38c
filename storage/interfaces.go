package storage

import (
	"context"
	"io"
)

// ObjectStore is the storage contract shared by all pipeline inputs and outputs.
// Keys are always relative to the store's root (bucket + prefix for cloud
// stores, base directory for the file system store).
type ObjectStore interface {
	// Identifier returns the store type identifier, e.g. "aws_s3_bucket"
	Identifier() string

	// List returns the keys of all objects under the given prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Open returns a reader for the object at the given key
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes the object at the given key, replacing any existing object
	Put(ctx context.Context, key string, body io.Reader) error

	// DeletePrefix removes every object under the given prefix
	DeletePrefix(ctx context.Context, prefix string) error

	Close() error
}
