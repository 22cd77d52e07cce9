package helper

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStorage keeps objects in a map. Used in tests and when OSS env is
// missing in local development.
type MemoryStorage struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
	Types   map[string]string
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		BaseURL: baseURL,
		Objects: map[string][]byte{},
		Types:   map[string]string{},
	}
}

func (m *MemoryStorage) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = append([]byte(nil), data...)
	m.Types[key] = contentType
	return m.BaseURL + "/" + key, nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}

func (m *MemoryStorage) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Objects[key]
	return b, ok
}
