package storage

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
)

// ReadingQueries is the public read contract other services use as their
// cursor mechanism.
type ReadingQueries interface {
	TemperatureSince(time.Time) ([]domain.TemperatureReading, error)
	EnvironmentSince(time.Time) ([]domain.EnvironmentReading, error)
}

func Register(app *fiber.App, repos ReadingQueries) {
	app.Get("/temperature", func(c *fiber.Ctx) error {
		cutoff, err := time.Parse(domain.DatetimeFormat, c.Query("timestamp"))
		if err != nil {
			return httpapi.Error(c, fiber.StatusBadRequest, err)
		}
		rows, err := repos.TemperatureSince(cutoff)
		if err != nil {
			return httpapi.Error(c, fiber.StatusInternalServerError, err)
		}
		if rows == nil {
			rows = []domain.TemperatureReading{}
		}
		return c.JSON(rows)
	})

	app.Get("/environment", func(c *fiber.Ctx) error {
		cutoff, err := time.Parse(domain.DatetimeFormat, c.Query("timestamp"))
		if err != nil {
			return httpapi.Error(c, fiber.StatusBadRequest, err)
		}
		rows, err := repos.EnvironmentSince(cutoff)
		if err != nil {
			return httpapi.Error(c, fiber.StatusInternalServerError, err)
		}
		if rows == nil {
			rows = []domain.EnvironmentReading{}
		}
		return c.JSON(rows)
	})
}
