package storage

import (
	"context"
	"fmt"

	"github.com/sparkify/lakehouse/config"
)

// NewObjectStore creates the object store implementation for a location,
// using the matching connection block from config for credentials.
// The returned store is rooted at the location - callers use relative keys.
func NewObjectStore(ctx context.Context, location *Location, cfg *config.Config) (ObjectStore, error) {
	switch location.Scheme {
	case SchemeS3:
		store, err := NewS3ObjectStore(ctx, location.Bucket, cfg.ConnectionFor("aws"))
		if err != nil {
			return nil, err
		}
		return withBase(store, location.Prefix), nil
	case SchemeGcs:
		store, err := NewGcsObjectStore(ctx, location.Bucket, cfg.ConnectionFor("gcp"))
		if err != nil {
			return nil, err
		}
		return withBase(store, location.Prefix), nil
	case SchemeFile:
		return NewFileSystemStore(location.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported location scheme %s", location.Scheme)
	}
}

// OpenLocation parses a location string and creates its rooted object store
func OpenLocation(ctx context.Context, location string, cfg *config.Config) (ObjectStore, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	return NewObjectStore(ctx, loc, cfg)
}
