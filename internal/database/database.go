package database

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

func Connect() (*sqlx.DB, error) {
	dsn := viper.GetString("DB_DSN")
	return sqlx.Connect("pgx", dsn)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS temperature (
		id_ BIGSERIAL PRIMARY KEY,
		date_created TIMESTAMPTZ NOT NULL,
		device_id VARCHAR(250) NOT NULL,
		location VARCHAR(250) NOT NULL,
		temperature DOUBLE PRECISION NOT NULL,
		timestamp VARCHAR(100) NOT NULL,
		trace_id VARCHAR(250) NOT NULL)`,

	`CREATE TABLE IF NOT EXISTS environment (
		id_ BIGSERIAL PRIMARY KEY,
		date_created TIMESTAMPTZ NOT NULL,
		device_id VARCHAR(250) NOT NULL,
		location VARCHAR(250) NOT NULL,
		pm2_5 INTEGER NOT NULL,
		co_2 INTEGER NOT NULL,
		timestamp VARCHAR(100) NOT NULL,
		trace_id VARCHAR(250) NOT NULL)`,

	`CREATE TABLE IF NOT EXISTS stats (
		id_ BIGSERIAL PRIMARY KEY,
		count BIGINT NOT NULL,
		temp_buffer DOUBLE PRECISION NOT NULL,
		max_temp DOUBLE PRECISION NOT NULL,
		min_temp DOUBLE PRECISION NOT NULL,
		avg_temp DOUBLE PRECISION NOT NULL,
		max_pm2_5 INTEGER NOT NULL,
		max_co_2 INTEGER NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL)`,

	`CREATE TABLE IF NOT EXISTS health (
		id_ BIGSERIAL PRIMARY KEY,
		system VARCHAR(250) NOT NULL,
		receiver VARCHAR(250) NOT NULL,
		storage VARCHAR(250) NOT NULL,
		audit_log VARCHAR(250) NOT NULL,
		processing VARCHAR(250) NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL)`,
}

// EnsureSchema creates the telemetry tables if they do not exist yet. Each
// service calls it on start; the statements are idempotent.
func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
