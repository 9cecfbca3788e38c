package storage

import (
	"fmt"
	"strings"
)

const (
	SchemeS3   = "s3"
	SchemeGcs  = "gs"
	SchemeFile = "file"
)

// Location is a parsed object storage location, e.g. "s3://bucket/prefix/"
type Location struct {
	Scheme string
	Bucket string
	// Prefix is the path under the bucket (or the directory for file locations),
	// without a leading slash
	Prefix string
}

// ParseLocation splits a location string into scheme, bucket and prefix.
// Locations without a scheme are treated as file system paths.
func ParseLocation(location string) (*Location, error) {
	if location == "" {
		return nil, fmt.Errorf("location is empty")
	}

	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return &Location{Scheme: SchemeFile, Prefix: location}, nil
	}

	switch scheme {
	case SchemeS3, "s3a", "s3n":
		// the hadoop s3a/s3n schemes are accepted as aliases for s3
		scheme = SchemeS3
	case SchemeGcs:
	case SchemeFile:
		return &Location{Scheme: SchemeFile, Prefix: rest}, nil
	default:
		return nil, fmt.Errorf("unsupported location scheme %s", scheme)
	}

	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("location %s has no bucket", location)
	}
	return &Location{Scheme: scheme, Bucket: bucket, Prefix: prefix}, nil
}

// Join appends path elements to the location prefix
func (l *Location) Join(elem ...string) string {
	parts := make([]string, 0, len(elem)+1)
	if l.Prefix != "" {
		parts = append(parts, strings.TrimSuffix(l.Prefix, "/"))
	}
	for _, e := range elem {
		parts = append(parts, strings.Trim(e, "/"))
	}
	return strings.Join(parts, "/")
}

func (l *Location) String() string {
	if l.Scheme == SchemeFile {
		return l.Prefix
	}
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Prefix)
}
