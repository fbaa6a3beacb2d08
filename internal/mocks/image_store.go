package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/phrazzld/feed-api/internal/platform/filestore"
)

// MockImageStore implements filestore.Store in memory for testing
type MockImageStore struct {
	SaveFn   func(ctx context.Context, name string, r io.Reader) error
	OpenFn   func(ctx context.Context, name string) (io.ReadCloser, error)
	DeleteFn func(ctx context.Context, name string) error

	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

var _ filestore.Store = (*MockImageStore)(nil)

// NewMockImageStore creates an empty in-memory image store.
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{files: make(map[string][]byte)}
}

// Save implements the filestore.Store interface
func (m *MockImageStore) Save(ctx context.Context, name string, r io.Reader) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, name, r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return nil
}

// Open implements the filestore.Store interface
func (m *MockImageStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if m.OpenFn != nil {
		return m.OpenFn(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, filestore.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete implements the filestore.Store interface
func (m *MockImageStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, name)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return filestore.ErrNotExist
	}
	delete(m.files, name)
	return nil
}

// Files returns the names of stored files.
func (m *MockImageStore) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	return names
}

// Deleted returns every name passed to Delete, in call order.
func (m *MockImageStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
