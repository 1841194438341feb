package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/broker"
	"github.com/sensorgrid/telemetry-pipeline/internal/config"
	"github.com/sensorgrid/telemetry-pipeline/internal/database"
	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
	"github.com/sensorgrid/telemetry-pipeline/internal/repository"
	"github.com/sensorgrid/telemetry-pipeline/internal/storage"
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
	consumer := storage.NewConsumer(repos)

	// The stable client ID names the durable session, so a restarted
	// consumer resumes from its last acknowledged message. A fresh session
	// starts at latest: no backfill of messages published before first
	// connect.
	client, err := broker.Connect(broker.Options{
		URL:              config.BrokerURL(),
		ClientID:         "telemetry",
		Topic:            config.DataTopic(),
		MaxRetries:       config.BrokerMaxRetries(),
		RetryDelay:       config.BrokerRetryDelay(),
		Durable:          true,
		OnConnect:        consumer.Connected,
		OnConnectionLost: consumer.ConnectionLost,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("broker connect failed")
	}
	defer client.Disconnect()

	// Consumption runs on the broker client's own goroutines; the HTTP
	// server below never blocks on broker I/O.
	if err := client.Subscribe(consumer.HandleMessage); err != nil {
		log.Fatal().Err(err).Msg("subscribe failed")
	}

	app := fiber.New()
	httpapi.Liveness(app, "storage")
	storage.Register(app, repos)

	log.Info().Str("addr", config.StorageAddr()).Msg("storage listening")
	log.Fatal().Err(app.Listen(config.StorageAddr())).Msg("server exit")
}
