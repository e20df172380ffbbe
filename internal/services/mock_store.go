package services

import (
	"context"
	"sync"
)

// MockContextStore wraps an in-memory store with call tracking and error
// injection for tests.
type MockContextStore struct {
	inner *MemoryContextStore

	AddErr   error
	QueryErr error
	CountErr error

	AddCalls   []Document
	QueryCalls []string // pair keys
	ClearCalls int
	CloseCalls int

	mu sync.Mutex
}

var _ ContextStore = (*MockContextStore)(nil)

func NewMockContextStore() *MockContextStore {
	return &MockContextStore{inner: NewMemoryContextStore()}
}

func (m *MockContextStore) Add(ctx context.Context, doc Document) error {
	m.mu.Lock()
	m.AddCalls = append(m.AddCalls, doc)
	err := m.AddErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.inner.Add(ctx, doc)
}

func (m *MockContextStore) Query(ctx context.Context, text string, k int, pairKey string) ([]Document, error) {
	m.mu.Lock()
	m.QueryCalls = append(m.QueryCalls, pairKey)
	err := m.QueryErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.inner.Query(ctx, text, k, pairKey)
}

func (m *MockContextStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	err := m.CountErr
	m.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return m.inner.Count(ctx)
}

func (m *MockContextStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	return m.inner.Clear(ctx)
}

func (m *MockContextStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

// Added returns a copy of the documents passed to Add.
func (m *MockContextStore) Added() []Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Document, len(m.AddCalls))
	copy(out, m.AddCalls)
	return out
}
