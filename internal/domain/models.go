package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DatetimeFormat is the cursor and wire timestamp layout shared by every
// service (UTC, second precision).
const DatetimeFormat = "2006-01-02T15:04:05Z"

// Now returns the current UTC time truncated to the precision carried on
// the wire, so stored cursors round-trip through DatetimeFormat exactly.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

type Kind string

const (
	KindTemperature Kind = "temperature"
	KindEnvironment Kind = "environment"
)

// Reading is the tagged union of telemetry kinds carried on the shared topic.
type Reading interface {
	Kind() Kind
}

type TemperatureReading struct {
	ID          int64     `db:"id_" json:"id,omitempty"`
	DateCreated time.Time `db:"date_created" json:"date_created,omitzero"`
	DeviceID    string    `db:"device_id" json:"device_id"`
	Location    string    `db:"location" json:"location"`
	Temperature float64   `db:"temperature" json:"temperature"`
	Timestamp   string    `db:"timestamp" json:"timestamp"`
	TraceID     string    `db:"trace_id" json:"trace_id"`
}

func (TemperatureReading) Kind() Kind { return KindTemperature }

type EnvironmentSample struct {
	PM25 int `db:"pm2_5" json:"pm2_5"`
	CO2  int `db:"co_2" json:"co_2"`
}

type EnvironmentReading struct {
	ID          int64             `db:"id_" json:"id,omitempty"`
	DateCreated time.Time         `db:"date_created" json:"date_created,omitzero"`
	DeviceID    string            `db:"device_id" json:"device_id"`
	Environment EnvironmentSample `json:"environment"`
	Location    string            `db:"location" json:"location"`
	Timestamp   string            `db:"timestamp" json:"timestamp"`
	TraceID     string            `db:"trace_id" json:"trace_id"`
}

func (EnvironmentReading) Kind() Kind { return KindEnvironment }

// Envelope wraps one reading per broker message. Both kinds share a single
// topic and are demultiplexed by Type on the consuming side.
type Envelope struct {
	Type     Kind            `json:"type"`
	Datetime string          `json:"datetime"`
	Payload  json.RawMessage `json:"payload"`
}

// NewEnvelope stamps the publisher-side datetime and serializes the reading.
func NewEnvelope(r Reading) (Envelope, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", r.Kind(), err)
	}
	return Envelope{
		Type:     r.Kind(),
		Datetime: Now().Format(DatetimeFormat),
		Payload:  payload,
	}, nil
}

// Reading decodes the payload into its concrete kind. The switch is the
// single demultiplexing point for the topic.
func (e Envelope) Reading() (Reading, error) {
	switch e.Type {
	case KindTemperature:
		var t TemperatureReading
		if err := json.Unmarshal(e.Payload, &t); err != nil {
			return nil, fmt.Errorf("decode temperature payload: %w", err)
		}
		return t, nil
	case KindEnvironment:
		var env EnvironmentReading
		if err := json.Unmarshal(e.Payload, &env); err != nil {
			return nil, fmt.Errorf("decode environment payload: %w", err)
		}
		return env, nil
	default:
		return nil, fmt.Errorf("envelope type %q: %w", e.Type, ErrUnknownKind)
	}
}

// Stats is one append-only rolling statistics snapshot. The current snapshot
// is always the row with the greatest LastUpdated.
type Stats struct {
	ID          int64     `db:"id_" json:"-"`
	Count       int64     `db:"count" json:"count"`
	TempBuffer  float64   `db:"temp_buffer" json:"temp_buffer"`
	MaxTemp     float64   `db:"max_temp" json:"max_temp"`
	MinTemp     float64   `db:"min_temp" json:"min_temp"`
	AvgTemp     float64   `db:"avg_temp" json:"avg_temp"`
	MaxPM25     int       `db:"max_pm2_5" json:"max_pm2_5"`
	MaxCO2      int       `db:"max_co_2" json:"max_co_2"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

// StatsSummary is the public read shape served by GET /stats.
type StatsSummary struct {
	MaxTemp float64 `json:"max_temp"`
	MinTemp float64 `json:"min_temp"`
	AvgTemp float64 `json:"avg_temp"`
	MaxPM25 int     `json:"max_pm2_5"`
	MaxCO2  int     `json:"max_co_2"`
}

func (s Stats) Summary() StatsSummary {
	return StatsSummary{
		MaxTemp: s.MaxTemp,
		MinTemp: s.MinTemp,
		AvgTemp: s.AvgTemp,
		MaxPM25: s.MaxPM25,
		MaxCO2:  s.MaxCO2,
	}
}

// SeedStats is the first row of the stats table. The out-of-range extrema
// guarantee the first real batch wins every max/min comparison.
func SeedStats() Stats {
	return Stats{
		Count:       0,
		TempBuffer:  0,
		MaxTemp:     -21,
		MinTemp:     51,
		AvgTemp:     0,
		MaxPM25:     0,
		MaxCO2:      0,
		LastUpdated: Now(),
	}
}

type ServiceStatus string

const (
	StatusUp   ServiceStatus = "up"
	StatusDown ServiceStatus = "down"

	// StatusStarting only ever appears in the seed row written before the
	// first probe cycle has completed.
	StatusStarting ServiceStatus = "starting"
)

type SystemStatus string

const (
	SystemGreen  SystemStatus = "green"
	SystemYellow SystemStatus = "yellow"
	SystemRed    SystemStatus = "red"
)

// SeedHealth is the row written before the first probe cycle completes, so
// reads never block on probing.
func SeedHealth() Health {
	return Health{
		System:      SystemRed,
		Receiver:    StatusStarting,
		Storage:     StatusStarting,
		AuditLog:    StatusStarting,
		Processing:  StatusStarting,
		LastUpdated: Now(),
	}
}

// Health is one append-only system health snapshot.
type Health struct {
	ID          int64         `db:"id_" json:"-"`
	System      SystemStatus  `db:"system" json:"system"`
	Receiver    ServiceStatus `db:"receiver" json:"receiver"`
	Storage     ServiceStatus `db:"storage" json:"storage"`
	AuditLog    ServiceStatus `db:"audit_log" json:"audit_log"`
	Processing  ServiceStatus `db:"processing" json:"processing"`
	LastUpdated time.Time     `db:"last_updated" json:"last_updated"`
}
