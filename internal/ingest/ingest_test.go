package ingest

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

type fakePublisher struct {
	published []domain.Envelope
	err       error
}

func (f *fakePublisher) Publish(env domain.Envelope) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, env)
	return nil
}

func newApp(pub *fakePublisher) *fiber.App {
	app := fiber.New()
	Register(app, pub)
	return app
}

func TestPostTemperaturePublishesEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	app := newApp(pub)

	body := `{"device_id":"dht22-001","location":"greenhouse-1","temperature":18.5,"timestamp":"2026-08-30T11:00:00Z","trace_id":"abc-123"}`
	req := httptest.NewRequest("POST", "/temperature", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		raw, _ := io.ReadAll(res.Body)
		t.Fatalf("status=%d want 201 (%s)", res.StatusCode, raw)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d envelopes, want 1", len(pub.published))
	}
	env := pub.published[0]
	if env.Type != domain.KindTemperature {
		t.Fatalf("type=%q want temperature", env.Type)
	}
	if env.Datetime == "" {
		t.Fatal("publisher did not stamp the broker datetime")
	}
	r, err := env.Reading()
	if err != nil {
		t.Fatalf("Reading: %v", err)
	}
	if r.(domain.TemperatureReading).TraceID != "abc-123" {
		t.Fatalf("trace_id lost in flight: %+v", r)
	}
}

func TestPostEnvironmentPublishesEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	app := newApp(pub)

	body := `{"device_id":"sds011-001","environment":{"pm2_5":12,"co_2":450},"location":"greenhouse-1","timestamp":"2026-08-30T11:00:00Z","trace_id":"def-456"}`
	req := httptest.NewRequest("POST", "/environment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("status=%d want 201", res.StatusCode)
	}
	r, err := pub.published[0].Reading()
	if err != nil {
		t.Fatalf("Reading: %v", err)
	}
	e := r.(domain.EnvironmentReading)
	if e.Environment.PM25 != 12 || e.Environment.CO2 != 450 {
		t.Fatalf("environment sample lost in flight: %+v", e)
	}
}

func TestPostTemperatureBrokerDownIsBadGateway(t *testing.T) {
	pub := &fakePublisher{err: errors.New("publish after reconnect: connection lost")}
	app := newApp(pub)

	body := `{"device_id":"dht22-001","temperature":18.5,"trace_id":"abc-123"}`
	req := httptest.NewRequest("POST", "/temperature", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("status=%d want 502", res.StatusCode)
	}
}

func TestPostMalformedBodyRejected(t *testing.T) {
	pub := &fakePublisher{}
	app := newApp(pub)

	req := httptest.NewRequest("POST", "/temperature", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status=%d want 400", res.StatusCode)
	}
	if len(pub.published) != 0 {
		t.Fatal("malformed body reached the broker")
	}
}
