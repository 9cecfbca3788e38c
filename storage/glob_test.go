package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralPrefix(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"song_data/A/A/A/*.json", "song_data/A/A/A/"},
		{"log-data/*/*/*.json", "log-data/"},
		{"*.json", ""},
		{"song_data/A/A/A/TRAAAAK128F9318786.json", "song_data/A/A/A/TRAAAAK128F9318786.json"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, literalPrefix(tt.pattern))
		})
	}
}

func TestResolveGlob(t *testing.T) {
	ctx := context.Background()
	store := NewFileSystemStore(t.TempDir())

	files := []string{
		"song_data/A/A/A/TRAAAAK128F9318786.json",
		"song_data/A/A/B/TRAABJL12903CDCF1A.json",
		"log-data/2018/11/2018-11-01-events.json",
		"log-data/2018/11/2018-11-02-events.json",
		"log-data/2018/11/notes.txt",
	}
	for _, f := range files {
		require.NoError(t, store.Put(ctx, f, strings.NewReader("{}")))
	}

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "literal directory wildcard",
			pattern: "song_data/A/A/A/*.json",
			want:    []string{"song_data/A/A/A/TRAAAAK128F9318786.json"},
		},
		{
			name:    "wildcard directories",
			pattern: "log-data/*/*/*.json",
			want: []string{
				"log-data/2018/11/2018-11-01-events.json",
				"log-data/2018/11/2018-11-02-events.json",
			},
		},
		{
			name:    "extension filter excludes non-matching files",
			pattern: "log-data/*/*/*.txt",
			want:    []string{"log-data/2018/11/notes.txt"},
		},
		{
			name:    "no matches",
			pattern: "missing/*.json",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveGlob(ctx, store, tt.pattern)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestFileSystemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileSystemStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "songs/songs.parquet/year=2018/part-1.parquet", strings.NewReader("one")))
	require.NoError(t, store.Put(ctx, "songs/songs.parquet/year=2019/part-2.parquet", strings.NewReader("two")))

	keys, err := store.List(ctx, "songs/songs.parquet/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	reader, err := store.Open(ctx, "songs/songs.parquet/year=2018/part-1.parquet")
	require.NoError(t, err)
	defer reader.Close()

	// stale output disappears entirely
	require.NoError(t, store.DeletePrefix(ctx, "songs/songs.parquet"))
	keys, err = store.List(ctx, "songs/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRootedStore(t *testing.T) {
	ctx := context.Background()
	inner := NewFileSystemStore(t.TempDir())
	store := withBase(inner, "warehouse")

	require.NoError(t, store.Put(ctx, "users/users.parquet/part-1.parquet", strings.NewReader("x")))

	// the wrapper translates to absolute keys underneath
	absolute, err := inner.List(ctx, "warehouse/")
	require.NoError(t, err)
	assert.Equal(t, []string{"warehouse/users/users.parquet/part-1.parquet"}, absolute)

	// and back to relative keys for callers
	relative, err := store.List(ctx, "users/")
	require.NoError(t, err)
	assert.Equal(t, []string{"users/users.parquet/part-1.parquet"}, relative)
}
