package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

func init() {
	factory := func(ctx context.Context, kwargs map[string]string) (Storage, error) {
		return NewFileSystem(option(kwargs, "location", "."), option(kwargs, "base_url", "/")), nil
	}
	Register("filesystem", factory)
	Register("fs", factory)
	Register("local", factory)
}

// FileSystem stores files below a root directory on local disk
type FileSystem struct {
	location string
	baseURL  string
}

// NewFileSystem creates a store rooted at location
func NewFileSystem(location, baseURL string) *FileSystem {
	return &FileSystem{location: location, baseURL: baseURL}
}

// Location returns the root directory
func (f *FileSystem) Location() string {
	return f.location
}

func (f *FileSystem) path(name string) string {
	return filepath.Join(f.location, filepath.FromSlash(CleanName(name)))
}

// Exists reports whether name exists on disk
func (f *FileSystem) Exists(ctx context.Context, name string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	_, err := os.Stat(f.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ListDir returns the immediate sub-directories and files of name
func (f *FileSystem) ListDir(ctx context.Context, name string) ([]string, []string, error) {
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	entries, err := os.ReadDir(f.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, []string{}, nil
		}
		return nil, nil, err
	}

	dirs := []string{}
	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)
	return dirs, files, nil
}

// Delete removes a file from disk
func (f *FileSystem) Delete(ctx context.Context, name string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := os.Remove(f.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, CleanName(name))
		}
		return err
	}
	return nil
}

// Save writes content to disk, creating parent directories as needed
func (f *FileSystem) Save(ctx context.Context, name string, content []byte) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	full := f.path(name)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return CleanName(name), nil
}

// URL returns the base URL joined with name
func (f *FileSystem) URL(name string) string {
	return JoinURL(f.baseURL, name)
}

// Open reads a file from disk
func (f *FileSystem) Open(ctx context.Context, name string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	content, err := os.ReadFile(f.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, CleanName(name))
		}
		return nil, err
	}
	return content, nil
}

// Close is a no-op
func (f *FileSystem) Close() error {
	return nil
}
