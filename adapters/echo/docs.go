package echo

import (
	"github.com/barisgit/fluxdocs/pkg/base"
	"github.com/barisgit/fluxdocs/storage"
	"github.com/labstack/echo/v4"
)

// DocsHandler creates an Echo handler using the shared docs logic
func DocsHandler(store storage.Storage, config base.DocsConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := base.ServeDoc(c.Request().Context(), store, c.Request().URL.Path, config)

		if response.NotFound {
			return c.NoContent(404)
		}

		c.Response().Header().Set("Content-Type", response.ContentType)
		c.Response().Header().Set("Cache-Control", response.CacheControl)
		c.Response().WriteHeader(response.StatusCode)
		_, err := c.Response().Write(response.Body)
		return err
	}
}
