package fiber

import (
	"github.com/barisgit/fluxdocs/pkg/base"
	"github.com/barisgit/fluxdocs/storage"
	"github.com/gofiber/fiber/v2"
)

// DocsHandler creates a Fiber handler using the shared docs logic
func DocsHandler(store storage.Storage, config base.DocsConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		response := base.ServeDoc(c.UserContext(), store, c.Path(), config)

		if response.NotFound {
			return c.SendStatus(404)
		}

		c.Set("Content-Type", response.ContentType)
		c.Set("Cache-Control", response.CacheControl)
		c.Status(response.StatusCode)
		return c.Send(response.Body)
	}
}
