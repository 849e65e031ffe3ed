package gin

import (
	"github.com/barisgit/fluxdocs/pkg/base"
	"github.com/barisgit/fluxdocs/storage"
	"github.com/gin-gonic/gin"
)

// DocsHandler creates a Gin handler using the shared docs logic
func DocsHandler(store storage.Storage, config base.DocsConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := base.ServeDoc(c.Request.Context(), store, c.Request.URL.Path, config)

		if response.NotFound {
			c.AbortWithStatus(404)
			return
		}

		c.Header("Cache-Control", response.CacheControl)
		c.Data(response.StatusCode, response.ContentType, response.Body)
	}
}
