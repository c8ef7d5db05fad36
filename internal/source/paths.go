package source

import (
	"path/filepath"
	"strings"
)

func normalizePath(path string) string {
	if path == "" {
		return path
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// BaseName returns the last path element.
func BaseName(path string) string {
	return filepath.Base(path)
}

// RelativePath returns path relative to base, falling back to the cleaned path when
// it lies outside base.
func RelativePath(path, base string) string {
	if base == "" {
		return normalizePath(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(path)
	}
	return filepath.ToSlash(rel)
}
