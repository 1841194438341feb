package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/broker"
	"github.com/sensorgrid/telemetry-pipeline/internal/config"
	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
	"github.com/sensorgrid/telemetry-pipeline/internal/ingest"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// No buffering fallback on the ingress path: an unreachable broker at
	// startup is fatal.
	client, err := broker.Connect(broker.Options{
		URL:        config.BrokerURL(),
		ClientID:   "receiver-" + uuid.NewString()[:8],
		Topic:      config.DataTopic(),
		MaxRetries: config.BrokerMaxRetries(),
		RetryDelay: config.BrokerRetryDelay(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("broker connect failed")
	}
	defer client.Disconnect()

	app := fiber.New()
	httpapi.Liveness(app, "receiver")
	ingest.Register(app, client)

	log.Info().Str("addr", config.ReceiverAddr()).Msg("receiver listening")
	log.Fatal().Err(app.Listen(config.ReceiverAddr())).Msg("server exit")
}
