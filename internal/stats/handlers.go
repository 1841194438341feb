package stats

import (
	"github.com/gofiber/fiber/v2"

	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
)

// Register wires the read-only stats endpoint. It always serves the latest
// appended snapshot, never recomputing on read.
func Register(app *fiber.App, store SnapshotStore) {
	app.Get("/stats", func(c *fiber.Ctx) error {
		s, err := store.LatestStats()
		if err != nil {
			return httpapi.Error(c, fiber.StatusInternalServerError, err)
		}
		return c.JSON(s.Summary())
	})
}
