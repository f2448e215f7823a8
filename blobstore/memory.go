package blobstore

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-memory Client for tests and local development.
type Memory struct {
	baseURL string
	mu      sync.RWMutex
	blobs   map[string][]byte
}

// NewMemory creates an empty in-memory blob store. References are baseURL
// joined with the blob path.
func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL: strings.TrimRight(baseURL, "/"),
		blobs:   make(map[string][]byte),
	}
}

// Upload implements Client.
func (m *Memory) Upload(ctx context.Context, path string, data []byte) (string, error) {
	m.mu.Lock()
	m.blobs[path] = append([]byte(nil), data...)
	m.mu.Unlock()
	return m.Reference(path), nil
}

// Reference implements Client.
func (m *Memory) Reference(path string) string {
	return m.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Delete implements Client.
func (m *Memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[path]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, path)
	return nil
}

// Get returns the stored content, for test assertions.
func (m *Memory) Get(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Len returns the number of stored blobs, for test assertions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
