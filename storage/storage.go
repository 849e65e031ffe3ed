// Package storage abstracts where offline documentation files are written.
//
// Names are logical, slash-separated paths such as "docs/users.json". Every
// backend converts OS separators to "/" before using a name, so callers may
// build names with filepath.Join.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Common storage errors
var (
	ErrNotFound       = errors.New("file not found")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrMissingOption  = errors.New("missing storage option")
)

// Storage defines the operations the documentation builder needs from a backend
type Storage interface {
	// Exists reports whether name is a stored file or a directory holding files
	Exists(ctx context.Context, name string) (bool, error)
	// ListDir returns the immediate sub-directories and files of name, sorted
	ListDir(ctx context.Context, name string) (dirs []string, files []string, err error)
	// Delete removes a stored file
	Delete(ctx context.Context, name string) error
	// Save writes content under name, replacing any existing file, and returns the stored name
	Save(ctx context.Context, name string, content []byte) (string, error)
	// URL returns the public URL of a stored name
	URL(name string) string
	// Open returns the content of a stored file
	Open(ctx context.Context, name string) ([]byte, error)
	// Close releases any connection held by the backend
	Close() error
}

// Factory builds a backend from its string options
type Factory func(ctx context.Context, kwargs map[string]string) (Storage, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available under name. Registering the same name
// twice replaces the earlier factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// New builds the backend registered under name
func New(ctx context.Context, name string, kwargs map[string]string) (Storage, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
	if kwargs == nil {
		kwargs = map[string]string{}
	}
	return factory(ctx, kwargs)
}

// Backends returns the registered backend names, sorted
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CleanName converts a name to its slash form without leading "/" or "./".
// The root is "".
func CleanName(name string) string {
	name = path.Clean("/" + filepath.ToSlash(name))
	return strings.TrimPrefix(name, "/")
}

// JoinURL joins a base URL and a stored name with exactly one "/"
func JoinURL(baseURL, name string) string {
	if baseURL == "" {
		baseURL = "/"
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + CleanName(name)
}

// option returns kwargs[key] or fallback when unset
func option(kwargs map[string]string, key, fallback string) string {
	if value, ok := kwargs[key]; ok && value != "" {
		return value
	}
	return fallback
}

func requiredOption(kwargs map[string]string, backend, key string) (string, error) {
	value := kwargs[key]
	if value == "" {
		return "", fmt.Errorf("%w: %s backend requires %q", ErrMissingOption, backend, key)
	}
	return value, nil
}

// listChildren splits flat file names into the immediate children of dir
func listChildren(dir string, names []string) ([]string, []string) {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	dirSet := make(map[string]bool)
	dirs := []string{}
	files := []string{}
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		if rest == "" {
			continue
		}
		if idx := strings.Index(rest, "/"); idx >= 0 {
			child := rest[:idx]
			if !dirSet[child] {
				dirSet[child] = true
				dirs = append(dirs, child)
			}
			continue
		}
		files = append(files, rest)
	}

	sort.Strings(dirs)
	sort.Strings(files)
	return dirs, files
}
