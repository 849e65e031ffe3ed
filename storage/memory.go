package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

func init() {
	Register("memory", func(ctx context.Context, kwargs map[string]string) (Storage, error) {
		return NewMemory(option(kwargs, "base_url", "/")), nil
	})
}

// Memory is an in-memory implementation of Storage
type Memory struct {
	baseURL string
	files   map[string][]byte
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory store
func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL: baseURL,
		files:   make(map[string][]byte),
	}
}

// Exists reports whether name is a file or a directory prefix
func (m *Memory) Exists(ctx context.Context, name string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	name = CleanName(name)
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[name]; ok {
		return true, nil
	}
	for stored := range m.files {
		if name == "" || strings.HasPrefix(stored, name+"/") {
			return true, nil
		}
	}
	return false, nil
}

// ListDir returns the immediate children of name
func (m *Memory) ListDir(ctx context.Context, name string) ([]string, []string, error) {
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	dirs, files := listChildren(CleanName(name), m.Names())
	return dirs, files, nil
}

// Delete removes a stored file
func (m *Memory) Delete(ctx context.Context, name string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	name = CleanName(name)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.files, name)
	return nil
}

// Save stores a copy of content under name
func (m *Memory) Save(ctx context.Context, name string, content []byte) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	name = CleanName(name)
	stored := make([]byte, len(content))
	copy(stored, content)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = stored
	return name, nil
}

// URL returns the base URL joined with name
func (m *Memory) URL(name string) string {
	return JoinURL(m.baseURL, name)
}

// Open returns a copy of the stored content
func (m *Memory) Open(ctx context.Context, name string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	name = CleanName(name)
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	result := make([]byte, len(content))
	copy(result, content)
	return result, nil
}

// Names returns every stored name, sorted
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
