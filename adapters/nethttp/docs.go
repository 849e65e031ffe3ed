package nethttp

import (
	"net/http"

	"github.com/barisgit/fluxdocs/pkg/base"
	"github.com/barisgit/fluxdocs/storage"
)

// DocsHandler creates a net/http handler using the shared docs logic
// Compatible with standard library mux, gorilla mux, and anything else accepting http.Handler
func DocsHandler(store storage.Storage, config base.DocsConfig) http.Handler {
	return DocsHandlerFunc(store, config)
}

// DocsHandlerFunc creates a net/http HandlerFunc using the shared docs logic
func DocsHandlerFunc(store storage.Storage, config base.DocsConfig) http.HandlerFunc {
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
