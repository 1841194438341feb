package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// InsertTemperature stamps the server-side receipt time and appends one row.
// date_created is distinct from the device-reported timestamp, which is
// never trusted for ordering.
func (r *Repos) InsertTemperature(t domain.TemperatureReading) error {
	_, err := r.db.Exec(
		`INSERT INTO temperature (date_created, device_id, location, temperature, timestamp, trace_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		domain.Now(), t.DeviceID, t.Location, t.Temperature, t.Timestamp, t.TraceID)
	return err
}

func (r *Repos) InsertEnvironment(e domain.EnvironmentReading) error {
	_, err := r.db.Exec(
		`INSERT INTO environment (date_created, device_id, location, pm2_5, co_2, timestamp, trace_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		domain.Now(), e.DeviceID, e.Location, e.Environment.PM25, e.Environment.CO2, e.Timestamp, e.TraceID)
	return err
}

// TemperatureSince returns all temperature rows with date_created at or
// after the cutoff, in insertion order.
func (r *Repos) TemperatureSince(cutoff time.Time) ([]domain.TemperatureReading, error) {
	var out []domain.TemperatureReading
	err := r.db.Select(&out,
		`SELECT id_, date_created, device_id, location, temperature, timestamp, trace_id
		 FROM temperature WHERE date_created >= $1 ORDER BY id_`, cutoff)
	return out, err
}

func (r *Repos) EnvironmentSince(cutoff time.Time) ([]domain.EnvironmentReading, error) {
	var out []domain.EnvironmentReading
	err := r.db.Select(&out,
		`SELECT id_, date_created, device_id, location,
		        pm2_5 AS "environment.pm2_5", co_2 AS "environment.co_2",
		        timestamp, trace_id
		 FROM environment WHERE date_created >= $1 ORDER BY id_`, cutoff)
	return out, err
}
