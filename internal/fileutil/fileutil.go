// Package fileutil provides file and path utility functions for site output.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrPathEscapes = errors.New("path escapes base directory")
	ErrEmptyPath   = errors.New("path cannot be empty")
)

// Output permissions for generated site files.
const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "textbook" -> false (name)
//   - "./textbook.yaml" -> true (relative path)
//   - "/etc/textbook.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Within joins rel onto base and verifies the result stays under base.
// Both absolute and relative bases are accepted; the result is cleaned.
func Within(base, rel string) (string, error) {
	if base == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s is absolute", ErrPathEscapes, rel)
	}

	cleanBase := filepath.Clean(base)
	joined := filepath.Join(cleanBase, rel)

	// Separator suffix prevents /base/path matching /base/pathevil.
	prefix := cleanBase
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if joined != cleanBase && !strings.HasPrefix(joined, prefix) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	return joined, nil
}

// WriteFile writes data to path through a temp file in the same directory,
// so readers never observe a half-written page. Parent directories are created.
func WriteFile(path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".textbook-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, FilePerm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// CopyFile copies src to dst, creating parent directories of dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- caller validates containment
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = in.Close() }()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	return WriteFile(dst, data)
}
