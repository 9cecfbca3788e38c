package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	typehelpers "github.com/turbot/go-kit/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/sparkify/lakehouse/config"
)

const GcpStorageObjectStoreIdentifier = "gcp_storage_bucket"

// GcsObjectStore is an [ObjectStore] backed by a GCP storage bucket
type GcsObjectStore struct {
	bucket string
	client *storage.Client
}

func NewGcsObjectStore(ctx context.Context, bucket string, conn *config.Connection) (*GcsObjectStore, error) {
	var opts []option.ClientOption
	if conn != nil {
		if credentialsPath := typehelpers.SafeString(conn.Credentials); credentialsPath != "" {
			opts = append(opts, option.WithCredentialsFile(credentialsPath))
		}
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client, %w", err)
	}

	slog.Info("Initialized GcsObjectStore", "bucket", bucket)
	return &GcsObjectStore{bucket: bucket, client: client}, nil
}

func (s *GcsObjectStore) Identifier() string {
	return GcpStorageObjectStoreIdentifier
}

func (s *GcsObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	bucket := s.client.Bucket(s.bucket)
	objectIterator := bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		obj, err := objectIterator.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("failed to list objects in bucket: %s", err.Error())
		}
		keys = append(keys, obj.Name)
	}
	return keys, nil
}

func (s *GcsObjectStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s, %w", key, err)
	}
	return reader, nil
}

func (s *GcsObjectStore) Put(ctx context.Context, key string, body io.Reader) error {
	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write object %s, %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write object %s, %w", key, err)
	}
	return nil
}

func (s *GcsObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}
	bucket := s.client.Bucket(s.bucket)
	for _, key := range keys {
		if err := bucket.Object(key).Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete object %s, %w", key, err)
		}
	}
	return nil
}

func (s *GcsObjectStore) Close() error {
	return s.client.Close()
}
