package http

import "github.com/gofiber/fiber/v2"

// Liveness registers the GET /health liveness endpoint each service exposes
// for the healthcheck prober.
func Liveness(app *fiber.App, service string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": service + " service running"})
	})
}

func Error(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
