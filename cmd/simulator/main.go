package main

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/config"
	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	base := config.ReceiverURL()

	for i := 0; i < 100; i++ {
		temp := domain.TemperatureReading{
			DeviceID:    "dht22-001",
			Location:    "greenhouse-1",
			Temperature: 18 + rand.Float64()*6,
			Timestamp:   domain.Now().Format(domain.DatetimeFormat),
			TraceID:     uuid.NewString(),
		}
		post(client, base+"/temperature", temp)

		if i%5 == 0 {
			env := domain.EnvironmentReading{
				DeviceID: "sds011-001",
				Location: "greenhouse-1",
				Environment: domain.EnvironmentSample{
					PM25: rand.Intn(40),
					CO2:  400 + rand.Intn(600),
				},
				Timestamp: domain.Now().Format(domain.DatetimeFormat),
				TraceID:   uuid.NewString(),
			}
			post(client, base+"/environment", env)
		}

		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}

func post(client *http.Client, url string, body any) {
	payload, _ := json.Marshal(body)
	res, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Error().Err(err).Msg("post failed")
		return
	}
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		log.Error().Int("status", res.StatusCode).Str("url", url).Msg("unexpected status")
	}
}
