package chi

import (
	"net/http"
	"strings"

	chibase "github.com/go-chi/chi/v5"

	"github.com/barisgit/fluxdocs/pkg/base"
	"github.com/barisgit/fluxdocs/storage"
)

// DocsHandler creates a Chi handler using the shared docs logic
func DocsHandler(store storage.Storage, config base.DocsConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := base.ServeDoc(r.Context(), store, r.URL.Path, config)

		if response.NotFound {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", response.ContentType)
		w.Header().Set("Cache-Control", response.CacheControl)
		w.WriteHeader(response.StatusCode)
		w.Write(response.Body)
	}
}

// Mount registers the docs handler on router under config.Prefix
func Mount(router chibase.Router, store storage.Storage, config base.DocsConfig) {
	prefix := config.Prefix
	if prefix == "" {
		prefix = base.DefaultPrefix
	}
	prefix = strings.Trim(prefix, "/")

	handler := DocsHandler(store, config)
	if prefix == "" {
		router.Get("/*", handler)
		return
	}
	router.Get("/"+prefix, handler)
	router.Get("/"+prefix+"/*", handler)
}
