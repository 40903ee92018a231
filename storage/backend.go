// Package storage defines the blob-store boundary the persistence
// protocol runs against, plus filesystem and in-memory implementations.
//
// Backends address blobs by slash-separated paths. The protocol only
// ever needs four capabilities, so anything from a local directory to a
// remote blob gateway can serve as a backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotExist reports a read of a blob that is not there.
var ErrNotExist = errors.New("storage: blob does not exist")

// Backend is the minimal storage surface required by writers and readers.
type Backend interface {
	// Exists reports whether anything lives at or under the path.
	Exists(ctx context.Context, path string) (bool, error)
	// DeleteRecursive removes the path and everything beneath it.
	// Deleting a missing path is not an error.
	DeleteRecursive(ctx context.Context, path string) error
	// WriteBlob stores one text record at the path, replacing any
	// previous blob there.
	WriteBlob(ctx context.Context, path string, text string) error
	// ReadFirstBlob returns the first text record stored at the path.
	// A missing blob yields an error matching ErrNotExist.
	ReadFirstBlob(ctx context.Context, path string) (string, error)
}

// CleanPath normalizes a storage path and rejects anything that would
// escape the backend root. Backends are root-jailed, so a leading slash
// is root-relative and is stripped. Backend implementations outside
// this package use it to share one path discipline.
func CleanPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("storage: empty path")
	}
	cp := strings.TrimPrefix(path.Clean(p), "/")
	if cp == "" || cp == "." {
		return "", fmt.Errorf("storage: path %q names the root itself", p)
	}
	if cp == ".." || strings.HasPrefix(cp, "../") {
		return "", fmt.Errorf("storage: path %q escapes the root", p)
	}
	return cp, nil
}

// firstLine cuts a record at the first newline.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
