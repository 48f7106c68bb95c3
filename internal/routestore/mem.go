package routestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory Store. It counts fetches per name.
type MemStore struct {
	mu      sync.Mutex
	files   map[string]memFile
	fetches map[string]int
}

type memFile struct {
	data      []byte
	updatedAt time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		files:   make(map[string]memFile),
		fetches: make(map[string]int),
	}
}

func (m *MemStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[name]++
	f, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("fetch %s: %w", name, ErrNotFound)
	}
	return append([]byte(nil), f.data...), nil
}

func (m *MemStore) Save(ctx context.Context, name string, content []byte) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = memFile{data: append([]byte(nil), content...), updatedAt: time.Now()}
	return nil
}

func (m *MemStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return fmt.Errorf("delete %s: %w", name, ErrNotFound)
	}
	delete(m.files, name)
	return nil
}

func (m *MemStore) List(ctx context.Context) ([]FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := make([]FileInfo, 0, len(m.files))
	for name, f := range m.files {
		files = append(files, FileInfo{Name: name, Size: int64(len(f.data)), UpdatedAt: f.updatedAt})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Fetches returns how often name was fetched.
func (m *MemStore) Fetches(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches[name]
}
