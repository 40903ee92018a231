package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory is a mutex-guarded in-memory backend. It backs tests and
// short-lived embeddings where nothing should touch disk.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]string
}

var _ Backend = (*Memory)(nil)

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]string)}
}

// Exists reports whether a blob lives at the path or anywhere under it.
func (m *Memory) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	cp, err := CleanPath(p)
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.blobs[cp]; ok {
		return true, nil
	}
	prefix := cp + "/"
	for key := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// DeleteRecursive removes the blob at the path and every blob under it.
func (m *Memory) DeleteRecursive(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp, err := CleanPath(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, cp)
	prefix := cp + "/"
	for key := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			delete(m.blobs, key)
		}
	}
	return nil
}

// WriteBlob stores one text record at the path.
func (m *Memory) WriteBlob(ctx context.Context, p string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp, err := CleanPath(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[cp] = text
	return nil
}

// ReadFirstBlob returns the first line of the blob at the path.
func (m *Memory) ReadFirstBlob(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cp, err := CleanPath(p)
	if err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	text, ok := m.blobs[cp]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	return firstLine(text), nil
}

// Len returns the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
