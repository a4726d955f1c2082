package handler

import "github.com/gofiber/fiber/v2"

// Service identity returned by the root endpoint.
const (
	ServiceName    = "Promotions REST API Service"
	ServiceVersion = "1.0"
)

// Index handles GET / with the service identity.
func Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    ServiceName,
		"version": ServiceVersion,
	})
}
