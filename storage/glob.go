package storage

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveGlob lists the store from the literal prefix of the pattern and
// returns the keys matching the wildcard pattern, e.g.
// "song_data/A/A/A/*.json" or "log-data/*/*/*.json"
func ResolveGlob(ctx context.Context, store ObjectStore, pattern string) ([]string, error) {
	keys, err := store.List(ctx, literalPrefix(pattern))
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, key := range keys {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, key)
		}
	}
	return matches, nil
}

// literalPrefix returns the pattern up to (not including) the first path
// segment containing a meta character
func literalPrefix(pattern string) string {
	if !strings.ContainsAny(pattern, "*?[{") {
		return pattern
	}
	segments := strings.Split(pattern, "/")
	var literal []string
	for _, segment := range segments {
		if strings.ContainsAny(segment, "*?[{") {
			break
		}
		literal = append(literal, segment)
	}
	if len(literal) == 0 {
		return ""
	}
	return strings.Join(literal, "/") + "/"
}
