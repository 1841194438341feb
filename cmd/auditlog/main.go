package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/audit"
	"github.com/sensorgrid/telemetry-pipeline/internal/broker"
	"github.com/sensorgrid/telemetry-pipeline/internal/config"
	httpapi "github.com/sensorgrid/telemetry-pipeline/internal/http"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	auditLog := audit.NewLog()

	// Own durable session, independent of the storage consumer's, so both
	// receive every envelope on the shared topic.
	client, err := broker.Connect(broker.Options{
		URL:        config.BrokerURL(),
		ClientID:   "audit_log",
		Topic:      config.DataTopic(),
		MaxRetries: config.BrokerMaxRetries(),
		RetryDelay: config.BrokerRetryDelay(),
		Durable:    true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("broker connect failed")
	}
	defer client.Disconnect()

	if err := client.Subscribe(auditLog.Record); err != nil {
		log.Fatal().Err(err).Msg("subscribe failed")
	}

	app := fiber.New()
	httpapi.Liveness(app, "audit_log")
	audit.Register(app, auditLog)

	log.Info().Str("addr", config.AuditAddr()).Msg("audit log listening")
	log.Fatal().Err(app.Listen(config.AuditAddr())).Msg("server exit")
}
