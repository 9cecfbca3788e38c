package table

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sparkify/lakehouse/rate_limiter"
	"github.com/sparkify/lakehouse/storage"
)

// ObjectStoreEngine is the production [Engine]: it reads newline-delimited
// JSON datasets from an object store, resolving input path patterns by glob.
// The store is responsible for all I/O; the engine only decodes rows.
type ObjectStoreEngine struct {
	store   storage.ObjectStore
	limiter *rate_limiter.APILimiter
}

func NewObjectStoreEngine(store storage.ObjectStore, limiter *rate_limiter.APILimiter) *ObjectStoreEngine {
	return &ObjectStoreEngine{store: store, limiter: limiter}
}

// ReadJSON returns a lazy table over all objects matching the glob pattern.
// Nothing is listed or read until the table is collected.
func (e *ObjectStoreEngine) ReadJSON(pattern string) Table {
	return newLazyTable(func(ctx context.Context) ([]Row, error) {
		return e.readRows(ctx, pattern)
	})
}

func (e *ObjectStoreEngine) readRows(ctx context.Context, pattern string) ([]Row, error) {
	keys, err := storage.ResolveGlob(ctx, e.store, pattern)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no input files match %s", pattern)
	}
	// deterministic row order regardless of listing order
	sort.Strings(keys)

	slog.Debug("reading NDJSON input", "pattern", pattern, "files", len(keys))

	// read files concurrently, bounded by the limiter; rowsPerFile keeps the
	// per-file ordering stable
	rowsPerFile := make([][]Row, len(keys))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := e.limiter.Wait(gctx); err != nil {
				return err
			}
			defer e.limiter.Release()

			rows, err := e.readFile(gctx, key)
			if err != nil {
				return err
			}
			mu.Lock()
			rowsPerFile[i] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Row
	for _, rows := range rowsPerFile {
		out = append(out, rows...)
	}
	return out, nil
}

func (e *ObjectStoreEngine) readFile(ctx context.Context, key string) ([]Row, error) {
	reader, err := e.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return DecodeRows(reader, key)
}

// DecodeRows decodes newline-delimited JSON objects into rows. Numbers are
// preserved as json.Number so that conversion happens at point of use and
// float comparisons stay bit-exact.
func DecodeRows(reader io.Reader, name string) ([]Row, error) {
	var rows []Row
	decoder := json.NewDecoder(bufio.NewReader(reader))
	decoder.UseNumber()
	for {
		var row Row
		if err := decoder.Decode(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode JSON row in %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
