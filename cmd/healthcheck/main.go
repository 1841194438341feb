package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/config"
	"github.com/sensorgrid/telemetry-pipeline/internal/database"
	"github.com/sensorgrid/telemetry-pipeline/internal/health"
	"github.com/sensorgrid/telemetry-pipeline/internal/repository"
	"github.com/sensorgrid/telemetry-pipeline/internal/sched"
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
	if err := repos.SeedHealth(); err != nil {
		log.Fatal().Err(err).Msg("seeding health failed")
	}

	prober := health.NewProber(config.ProbeTimeout())
	runner := health.NewRunner(repos, prober, health.Targets{
		Receiver:   config.ReceiverURL(),
		Storage:    config.StorageURL(),
		AuditLog:   config.AuditURL(),
		Processing: config.ProcessingURL(),
	})
	sched.Every(context.Background(), "check_health", config.HealthInterval(), runner.RunCycle)

	app := fiber.New()
	health.Register(app, repos)

	log.Info().Str("addr", config.HealthAddr()).Msg("healthcheck listening")
	log.Fatal().Err(app.Listen(config.HealthAddr())).Msg("server exit")
}
