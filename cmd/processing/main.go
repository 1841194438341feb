package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/config"
	"github.com/sensorgrid/telemetry-pipeline/internal/database"
	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
	"github.com/sensorgrid/telemetry-pipeline/internal/repository"
	"github.com/sensorgrid/telemetry-pipeline/internal/sched"
	"github.com/sensorgrid/telemetry-pipeline/internal/stats"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()
	if err := database.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	repos := repository.New(db)
	if err := repos.SeedStats(); err != nil {
		log.Fatal().Err(err).Msg("seeding stats failed")
	}

	runner := stats.NewRunner(repos, config.StorageURL(), config.StorageTimeout())
	sched.Every(context.Background(), "populate_stats", config.ProcessInterval(), runner.RunCycle)

	app := fiber.New()
	httpapi.Liveness(app, "processing")
	stats.Register(app, repos)

	log.Info().Str("addr", config.ProcessingAddr()).Msg("processing listening")
	log.Fatal().Err(app.Listen(config.ProcessingAddr())).Msg("server exit")
}
