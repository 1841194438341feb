package health

import (
	"github.com/gofiber/fiber/v2"

	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
)

// Register wires the snapshot read endpoint. Reads never probe; they serve
// the last computed snapshot so read latency is independent of probe
// timeouts.
func Register(app *fiber.App, store SnapshotStore) {
	app.Get("/health", func(c *fiber.Ctx) error {
		h, err := store.LatestHealth()
		if err != nil {
			return httpapi.Error(c, fiber.StatusInternalServerError, err)
		}
		return c.JSON(h)
	})
}
