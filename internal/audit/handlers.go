package audit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

func Register(app *fiber.App, auditLog *Log) {
	app.Get("/temperature", lookup(auditLog, domain.KindTemperature))
	app.Get("/environment", lookup(auditLog, domain.KindEnvironment))
}

func lookup(auditLog *Log, kind domain.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index := c.QueryInt("index", -1)
		env, ok := auditLog.ByKindIndex(kind, index)
		if !ok {
			log.Error().Int("index", index).Str("type", string(kind)).Msg("no envelope at index")
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not Found"})
		}
		return c.JSON(env)
	}
}
