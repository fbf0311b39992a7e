package store

import (
	"slices"
	"strings"
)

// KeySeparator joins path segments in a store key regardless of platform.
const KeySeparator = "/"

// EncodeKey joins segments into the canonical store key. The root encodes
// to the empty string.
func EncodeKey(segments []string) string {
	return strings.Join(segments, KeySeparator)
}

// DecodeKey splits a store key into segments, dropping empty ones so that
// stray, leading, or trailing separators never produce phantom levels.
func DecodeKey(key string) []string {
	parts := strings.Split(key, KeySeparator)
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}

// HasPrefix reports whether path lies at or below prefix, comparing whole
// segments.
func HasPrefix(path, prefix []string) bool {
	return len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}

// IsStrictDescendant reports whether path lies strictly below prefix.
func IsStrictDescendant(path, prefix []string) bool {
	return len(path) > len(prefix) && HasPrefix(path, prefix)
}

// TrimPrefix returns path relative to prefix. The result is nil when path
// equals prefix or is not below it.
func TrimPrefix(path, prefix []string) []string {
	if !IsStrictDescendant(path, prefix) {
		return nil
	}
	return path[len(prefix):]
}

// Parent returns the segments of the containing directory. The parent of a
// top-level entry, and of the root, is the root.
func Parent(path []string) []string {
	if len(path) <= 1 {
		return nil
	}
	return path[:len(path)-1]
}

// ParentKey is Parent expressed as a key.
func ParentKey(key string) string {
	return EncodeKey(Parent(DecodeKey(key)))
}
