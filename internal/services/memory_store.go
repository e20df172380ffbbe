package services

import (
	"context"
	"sync"
)

// MemoryContextStore keeps documents in process memory.
type MemoryContextStore struct {
	mu   sync.RWMutex
	docs []Document
}

var _ ContextStore = (*MemoryContextStore)(nil)

func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{docs: make([]Document, 0)}
}

func (m *MemoryContextStore) Add(ctx context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
	return nil
}

func (m *MemoryContextStore) Query(ctx context.Context, text string, k int, pairKey string) ([]Document, error) {
	m.mu.RLock()
	matches := make([]Document, 0)
	for _, doc := range m.docs {
		if doc.PairKey() == pairKey {
			matches = append(matches, doc)
		}
	}
	m.mu.RUnlock()
	return rank(matches, text, k), nil
}

func (m *MemoryContextStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

func (m *MemoryContextStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make([]Document, 0)
	return nil
}

func (m *MemoryContextStore) Close() error {
	return nil
}
