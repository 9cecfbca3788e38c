package warehouse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"github.com/sparkify/lakehouse/rate_limiter"
	"github.com/sparkify/lakehouse/storage"
)

// WriteRequest describes one partitioned table write
type WriteRequest struct {
	// Location is the table prefix under the output store,
	// e.g. "songs/songs.parquet"
	Location string
	// PartitionBy lists the partition column names, outermost first;
	// empty means a single unpartitioned part file
	PartitionBy []string
}

func (r *WriteRequest) Validate() error {
	if r.Location == "" {
		return errors.New("location is required")
	}
	return nil
}

// Writer persists row structs as partitioned parquet files at a fixed
// location, in overwrite mode: everything previously under the location is
// replaced. There is no transaction across tables - callers sequence their
// writes and accept a mixed old/new warehouse if a later write fails.
type Writer[T any] struct {
	store   storage.ObjectStore
	limiter *rate_limiter.APILimiter
}

func NewWriter[T any](store storage.ObjectStore, limiter *rate_limiter.APILimiter) *Writer[T] {
	return &Writer[T]{store: store, limiter: limiter}
}

// Write replaces the table at req.Location with the given rows
func (w *Writer[T]) Write(ctx context.Context, rows []T, req *WriteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	start := time.Now()

	// overwrite mode: the old table contents go away before the new ones land
	if err := w.store.DeletePrefix(ctx, req.Location); err != nil {
		return fmt.Errorf("failed to clear %s, %w", req.Location, err)
	}

	partitions, err := w.partitionRows(rows, req.PartitionBy)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for dir, partitionRows := range partitions {
		dir, partitionRows := dir, partitionRows
		g.Go(func() error {
			if err := w.limiter.Wait(gctx); err != nil {
				return err
			}
			defer w.limiter.Release()
			return w.writePartFile(gctx, req.Location, dir, partitionRows)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("table written",
		"location", req.Location,
		"rows", len(rows),
		"partitions", len(partitions),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// partitionRows groups rows by their hive-style partition directory
func (w *Writer[T]) partitionRows(rows []T, partitionBy []string) (map[string][]T, error) {
	if len(partitionBy) == 0 {
		return map[string][]T{"": rows}, nil
	}

	var zero T
	index, err := columnIndex(reflect.TypeOf(zero), partitionBy)
	if err != nil {
		return nil, err
	}

	partitions := make(map[string][]T)
	for _, row := range rows {
		dir := partitionPath(reflect.ValueOf(row), partitionBy, index)
		partitions[dir] = append(partitions[dir], row)
	}
	return partitions, nil
}

func (w *Writer[T]) writePartFile(ctx context.Context, location, dir string, rows []T) error {
	var buf bytes.Buffer
	pw := parquet.NewGenericWriter[T](&buf)
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("failed to encode parquet for %s, %w", location, err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to encode parquet for %s, %w", location, err)
	}

	key := location
	if dir != "" {
		key += "/" + dir
	}
	key += "/part-" + uuid.New().String() + ".parquet"

	if err := w.store.Put(ctx, key, &buf); err != nil {
		return err
	}
	slog.Debug("part file written", "key", key, "rows", len(rows))
	return nil
}
