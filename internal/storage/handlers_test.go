package storage

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

type fakeQueries struct {
	temps     []domain.TemperatureReading
	envs      []domain.EnvironmentReading
	gotCutoff time.Time
}

func (f *fakeQueries) TemperatureSince(cutoff time.Time) ([]domain.TemperatureReading, error) {
	f.gotCutoff = cutoff
	return f.temps, nil
}

func (f *fakeQueries) EnvironmentSince(cutoff time.Time) ([]domain.EnvironmentReading, error) {
	f.gotCutoff = cutoff
	return f.envs, nil
}

func TestQueryTemperatureByCutoff(t *testing.T) {
	q := &fakeQueries{temps: []domain.TemperatureReading{
		{ID: 1, DeviceID: "d1", Temperature: 18.5, TraceID: "abc-123"},
	}}
	app := fiber.New()
	Register(app, q)

	req := httptest.NewRequest("GET", "/temperature?timestamp=2026-08-30T10:00:00Z", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status=%d want 200", res.StatusCode)
	}
	want := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	if !q.gotCutoff.Equal(want) {
		t.Fatalf("cutoff=%v want %v", q.gotCutoff, want)
	}
	var rows []domain.TemperatureReading
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].TraceID != "abc-123" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestQueryEmptyResultIsEmptyArray(t *testing.T) {
	app := fiber.New()
	Register(app, &fakeQueries{})

	req := httptest.NewRequest("GET", "/environment?timestamp=2026-08-30T10:00:00Z", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var rows []domain.EnvironmentReading
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rows == nil {
		t.Fatal("empty result must serialize as [], not null")
	}
}

func TestQueryBadTimestampRejected(t *testing.T) {
	app := fiber.New()
	Register(app, &fakeQueries{})

	for _, target := range []string{"/temperature", "/temperature?timestamp=yesterday"} {
		req := httptest.NewRequest("GET", target, nil)
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if res.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s: status=%d want 400", target, res.StatusCode)
		}
	}
}
