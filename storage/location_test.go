package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     *Location
		wantErr  bool
	}{
		{
			name:     "s3 bucket with prefix",
			location: "s3://udacity-dend/song_data",
			want:     &Location{Scheme: "s3", Bucket: "udacity-dend", Prefix: "song_data"},
		},
		{
			name:     "s3 bucket only",
			location: "s3://udacity-dend/",
			want:     &Location{Scheme: "s3", Bucket: "udacity-dend", Prefix: ""},
		},
		{
			name:     "s3a alias",
			location: "s3a://udacity-dend/",
			want:     &Location{Scheme: "s3", Bucket: "udacity-dend", Prefix: ""},
		},
		{
			name:     "gcs",
			location: "gs://sparkify/warehouse",
			want:     &Location{Scheme: "gs", Bucket: "sparkify", Prefix: "warehouse"},
		},
		{
			name:     "file scheme",
			location: "file:///tmp/warehouse",
			want:     &Location{Scheme: "file", Prefix: "/tmp/warehouse"},
		},
		{
			name:     "plain path",
			location: "/tmp/warehouse",
			want:     &Location{Scheme: "file", Prefix: "/tmp/warehouse"},
		},
		{
			name:     "empty",
			location: "",
			wantErr:  true,
		},
		{
			name:     "unknown scheme",
			location: "ftp://host/path",
			wantErr:  true,
		},
		{
			name:     "missing bucket",
			location: "s3:///prefix",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.location)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationJoin(t *testing.T) {
	l := &Location{Scheme: "s3", Bucket: "b", Prefix: "warehouse/"}
	assert.Equal(t, "warehouse/songs/songs.parquet", l.Join("songs/songs.parquet"))

	empty := &Location{Scheme: "s3", Bucket: "b"}
	assert.Equal(t, "songs/songs.parquet", empty.Join("songs/songs.parquet"))
}
