package docstore

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory Client for tests and local development.
type Memory struct {
	mu sync.RWMutex
	// collections -> id -> fields
	data map[string]map[string]Document
	// ReadGuard, when set, runs before every Get/ListAll and may return
	// ErrPermissionDenied or any other error to simulate backend behaviour.
	ReadGuard func(collection string) error
}

// NewMemory creates an empty in-memory document store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]Document)}
}

// Get implements Client.
func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if m.ReadGuard != nil {
		if err := m.ReadGuard(collection); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDocument(doc), nil
}

// Set implements Client.
func (m *Memory) Set(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.data[collection]
	if !ok {
		coll = make(map[string]Document)
		m.data[collection] = coll
	}
	coll[id] = copyDocument(fields)
	return nil
}

// Update implements Client.
func (m *Memory) Update(ctx context.Context, collection, id string, partial Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range copyDocument(partial) {
		doc[k] = v
	}
	return nil
}

// Delete implements Client.
func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.data[collection]
	if _, ok := coll[id]; !ok {
		return ErrNotFound
	}
	delete(coll, id)
	return nil
}

// ListAll implements Client. Results are ordered by id for determinism.
func (m *Memory) ListAll(ctx context.Context, collection string) ([]Document, error) {
	if m.ReadGuard != nil {
		if err := m.ReadGuard(collection); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coll := m.data[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc := copyDocument(coll[id])
		doc["id"] = id
		docs = append(docs, doc)
	}
	return docs, nil
}

func copyDocument(doc Document) Document {
	cp := make(Document, len(doc))
	for k, v := range doc {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		cp[k] = v
	}
	return cp
}
