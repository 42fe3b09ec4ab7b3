package storage

import (
	"context"
	"sort"
	"sync"
)

// MockStorage is an in-memory Storage for tests that do not want a
// filesystem or miniredis.
type MockStorage struct {
	mu         sync.Mutex
	saves      map[string][]byte
	thumbnails map[string][]byte

	// Error hooks let tests simulate backend failure.
	WriteErr error
	ReadErr  error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves:      make(map[string][]byte),
		thumbnails: make(map[string][]byte),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }
func (m *MockStorage) Close() error                   { return nil }

func (m *MockStorage) WriteSave(ctx context.Context, name string, data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.saves[name] = cp
	return nil
}

func (m *MockStorage) ReadSave(ctx context.Context, name string) ([]byte, bool, error) {
	if m.ReadErr != nil {
		return nil, false, m.ReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.saves[name]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

func (m *MockStorage) WriteThumbnail(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.thumbnails[name] = cp
	return nil
}

// Thumbnail returns a stored thumbnail for assertions.
func (m *MockStorage) Thumbnail(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.thumbnails[name]
	return data, ok
}

func (m *MockStorage) DeleteSave(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, name)
	delete(m.thumbnails, name)
	return nil
}

func (m *MockStorage) ListSaves(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.saves))
	for name := range m.saves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
