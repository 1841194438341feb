package ingest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
)

// Publisher is the broker-facing contract of the ingress gate.
type Publisher interface {
	Publish(domain.Envelope) error
}

// Register wires the device-facing endpoints. Each accepted reading is
// wrapped in an envelope, stamped with the broker-side datetime and
// published; a publish failure after the client's single reconnect-retry
// surfaces as 502.
func Register(app *fiber.App, pub Publisher) {
	app.Post("/temperature", func(c *fiber.Ctx) error {
		var body domain.TemperatureReading
		if err := c.BodyParser(&body); err != nil {
			return httpapi.Error(c, fiber.StatusBadRequest, err)
		}
		log.Info().Str("trace_id", body.TraceID).Msg("received temperature reading")
		return publish(c, pub, body)
	})

	app.Post("/environment", func(c *fiber.Ctx) error {
		var body domain.EnvironmentReading
		if err := c.BodyParser(&body); err != nil {
			return httpapi.Error(c, fiber.StatusBadRequest, err)
		}
		log.Info().Str("trace_id", body.TraceID).Msg("received environment reading")
		return publish(c, pub, body)
	})
}

func publish(c *fiber.Ctx, pub Publisher, r domain.Reading) error {
	env, err := domain.NewEnvelope(r)
	if err != nil {
		return httpapi.Error(c, fiber.StatusInternalServerError, err)
	}
	if err := pub.Publish(env); err != nil {
		log.Error().Err(err).Str("type", string(env.Type)).Msg("publish failed")
		return httpapi.Error(c, fiber.StatusBadGateway, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}
