package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every backend must share
func runContract(t *testing.T, store Storage) {
	ctx := context.Background()

	t.Run("missing directory lists empty", func(t *testing.T) {
		exists, err := store.Exists(ctx, "docs")
		require.NoError(t, err)
		assert.False(t, exists)

		dirs, files, err := store.ListDir(ctx, "docs")
		require.NoError(t, err)
		assert.Empty(t, dirs)
		assert.Empty(t, files)
	})

	t.Run("save and open", func(t *testing.T) {
		stored, err := store.Save(ctx, filepath.Join("docs", "users.json"), []byte(`{"a":1}`))
		require.NoError(t, err)
		assert.Equal(t, "docs/users.json", stored)

		content, err := store.Open(ctx, "docs/users.json")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(content))
	})

	t.Run("save overwrites", func(t *testing.T) {
		_, err := store.Save(ctx, "docs/users.json", []byte(`{"a":2}`))
		require.NoError(t, err)

		content, err := store.Open(ctx, "docs/users.json")
		require.NoError(t, err)
		assert.Equal(t, `{"a":2}`, string(content))
	})

	t.Run("list immediate children", func(t *testing.T) {
		_, err := store.Save(ctx, "docs/orders/items.json", []byte(`{}`))
		require.NoError(t, err)
		_, err = store.Save(ctx, "docs/base.json", []byte(`{}`))
		require.NoError(t, err)

		exists, err := store.Exists(ctx, "docs")
		require.NoError(t, err)
		assert.True(t, exists)

		dirs, files, err := store.ListDir(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, []string{"orders"}, dirs)
		assert.Equal(t, []string{"base.json", "users.json"}, files)

		dirs, files, err = store.ListDir(ctx, "docs/orders")
		require.NoError(t, err)
		assert.Empty(t, dirs)
		assert.Equal(t, []string{"items.json"}, files)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "docs/base.json"))

		_, err := store.Open(ctx, "docs/base.json")
		assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

		err = store.Delete(ctx, "docs/base.json")
		assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Save(cancelled, "docs/late.json", []byte(`{}`))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryContract(t *testing.T) {
	store := NewMemory("/")
	runContract(t, store)
	assert.Equal(t, []string{"docs/orders/items.json", "docs/users.json"}, store.Names())
}

func TestFileSystemContract(t *testing.T) {
	dir := t.TempDir()
	runContract(t, NewFileSystem(dir, "/static/"))

	info, err := os.Stat(filepath.Join(dir, "docs", "orders"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPostgresContract(t *testing.T) {
	dsn := os.Getenv("FLUXDOCS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FLUXDOCS_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := NewPostgres(ctx, dsn, "offline_docs_test", "/")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.pool.Exec(ctx, "TRUNCATE "+store.table)
	require.NoError(t, err)
	runContract(t, store)
}

func TestPostgresRejectsUnsafeTableNames(t *testing.T) {
	for _, table := range []string{"docs; DROP TABLE users", "docs\"", "1docs", "public.docs", ""} {
		_, err := NewPostgres(context.Background(), "postgres://localhost/unused", table, "/")
		assert.ErrorContains(t, err, "invalid table name", table)
	}
}

func TestMongoContract(t *testing.T) {
	uri := os.Getenv("FLUXDOCS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FLUXDOCS_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	store, err := NewMongo(ctx, uri, "fluxdocs_test", "offline_docs", "/")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.collection.Drop(ctx))
	runContract(t, store)
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"filesystem", "fs", "local", "memory", "postgres", "mongo"} {
		assert.Contains(t, Backends(), name)
	}

	store, err := New(ctx, "FileSystem", map[string]string{"location": t.TempDir(), "base_url": "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.IsType(t, &FileSystem{}, store)
	assert.Equal(t, "https://cdn.example.com/docs/users.json", store.URL("docs/users.json"))

	store, err = New(ctx, "memory", nil)
	require.NoError(t, err)
	assert.Equal(t, "/docs/base.json", store.URL("docs/base.json"))

	_, err = New(ctx, "s3", nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = New(ctx, "postgres", map[string]string{})
	assert.ErrorIs(t, err, ErrMissingOption)

	_, err = New(ctx, "mongo", map[string]string{"database": "x"})
	assert.ErrorIs(t, err, ErrMissingOption)
}

func TestRegisterCustomBackend(t *testing.T) {
	Register("test-custom", func(ctx context.Context, kwargs map[string]string) (Storage, error) {
		return NewMemory(kwargs["base_url"]), nil
	})

	store, err := New(context.Background(), "test-custom", map[string]string{"base_url": "/x"})
	require.NoError(t, err)
	assert.Equal(t, "/x/a.json", store.URL("a.json"))
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"/":                "",
		"docs":             "docs",
		"/docs/users.json": "docs/users.json",
		"./docs/../docs/a": "docs/a",
		"docs//orders/":    "docs/orders",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, CleanName(input), input)
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "/docs/a.json", JoinURL("", "docs/a.json"))
	assert.Equal(t, "/static/docs/a.json", JoinURL("/static", "/docs/a.json"))
	assert.Equal(t, "http://h/docs/a.json", JoinURL("http://h/", "docs/a.json"))
}

func TestListChildren(t *testing.T) {
	dirs, files := listChildren("docs", []string{"docs/a.json", "docs/sub/b.json", "docs/sub/c/d.json", "other/x.json", "docsx/y.json"})
	assert.Equal(t, []string{"sub"}, dirs)
	assert.Equal(t, []string{"a.json"}, files)

	dirs, files = listChildren("", []string{"a.json", "docs/b.json"})
	assert.Equal(t, []string{"docs"}, dirs)
	assert.Equal(t, []string{"a.json"}, files)
}
