// Package base holds the framework-independent logic for serving stored
// offline docs. The adapters translate a DocResponse into their own response
// types.
package base

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/barisgit/fluxdocs/storage"
)

const (
	// DefaultPrefix is the URL prefix the docs are served under
	DefaultPrefix = "/docs/"
	// DefaultDocsDir is the storage directory the docs were generated into
	DefaultDocsDir = "docs"
	// DefaultIndex is served for the bare prefix
	DefaultIndex = "base.json"

	jsonContentType = "application/json; charset=utf-8"
)

// DocsConfig configures how request paths map onto stored files
type DocsConfig struct {
	// Prefix is the URL path the docs are mounted at (e.g., "/docs/")
	Prefix string
	// DocsDir is the storage directory holding the generated files
	DocsDir string
	// Index is the file served for the bare prefix
	Index string
}

// DocResponse is the outcome of a docs lookup
type DocResponse struct {
	StatusCode   int
	ContentType  string
	CacheControl string
	Body         []byte
	NotFound     bool
}

func (c DocsConfig) withDefaults() DocsConfig {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if !strings.HasPrefix(c.Prefix, "/") {
		c.Prefix = "/" + c.Prefix
	}
	if !strings.HasSuffix(c.Prefix, "/") {
		c.Prefix += "/"
	}
	if c.DocsDir == "" {
		c.DocsDir = DefaultDocsDir
	}
	c.DocsDir = storage.CleanName(c.DocsDir)
	if c.Index == "" {
		c.Index = DefaultIndex
	}
	return c
}

// Resolve maps a request path to a stored file name. The boolean is false
// when the path lies outside the prefix or escapes the docs directory.
func (c DocsConfig) Resolve(urlPath string) (string, bool) {
	c = c.withDefaults()

	if urlPath+"/" == c.Prefix {
		urlPath = c.Prefix
	}
	if !strings.HasPrefix(urlPath, c.Prefix) {
		return "", false
	}

	rest := strings.TrimPrefix(urlPath, c.Prefix)
	rest = strings.ReplaceAll(rest, "{format}", "json")
	rest = strings.ReplaceAll(rest, "%7Bformat%7D", "json")
	if rest == "" || strings.HasSuffix(rest, "/") {
		rest += c.Index
	}
	if path.Ext(rest) == "" {
		rest += ".json"
	}

	name := storage.CleanName(c.DocsDir + "/" + rest)
	if !strings.HasPrefix(name, c.DocsDir+"/") {
		return "", false
	}
	return name, true
}

// ServeDoc loads the stored file addressed by urlPath. Flat-mode names are
// tried when a nested path has no file of its own.
func ServeDoc(ctx context.Context, store storage.Storage, urlPath string, cfg DocsConfig) DocResponse {
	cfg = cfg.withDefaults()

	name, ok := cfg.Resolve(urlPath)
	if !ok {
		return notFound()
	}

	candidates := []string{name}
	rel := strings.TrimPrefix(name, cfg.DocsDir+"/")
	if flat := strings.ReplaceAll(rel, "/", "_"); flat != rel {
		candidates = append(candidates, cfg.DocsDir+"/"+flat)
	}

	for _, candidate := range candidates {
		body, err := store.Open(ctx, candidate)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return DocResponse{
				StatusCode:   http.StatusInternalServerError,
				ContentType:  "text/plain; charset=utf-8",
				CacheControl: "no-cache",
				Body:         []byte("failed to load docs"),
			}
		}
		return DocResponse{
			StatusCode:   http.StatusOK,
			ContentType:  jsonContentType,
			CacheControl: "no-cache",
			Body:         body,
		}
	}
	return notFound()
}

func notFound() DocResponse {
	return DocResponse{StatusCode: http.StatusNotFound, NotFound: true}
}
