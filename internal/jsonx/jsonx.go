// Package jsonx holds the defensive JSON helpers used for blob columns.
package jsonx

import "encoding/json"

// ParseOrDefault decodes raw into T, returning fallback when raw is empty or
// malformed. Historical rows may carry corrupt blobs; a bad blob degrades to
// the fallback instead of failing the whole read.
func ParseOrDefault[T any](raw string, fallback T) T {
	if raw == "" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback
	}
	return v
}

// MustMarshal encodes v, falling back to the given literal on error. The
// types stored in blob columns are plain structs and slices, so an encode
// error is effectively unreachable.
func MustMarshal(v any, fallback string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}
