package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// NewHTTPServer builds the fiber backed server every deployment of this
// backend starts from. Route wiring happens in the caller; this only applies
// the adapter defaults shared across environments.
func NewHTTPServer() router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})
}
