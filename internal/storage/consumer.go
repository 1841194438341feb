package storage

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

// ReadingStore is the slice of the repository the consumer writes through.
type ReadingStore interface {
	InsertTemperature(domain.TemperatureReading) error
	InsertEnvironment(domain.EnvironmentReading) error
}

type State int32

const (
	Connecting State = iota
	Consuming
	Disconnected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Consuming:
		return "consuming"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// Consumer persists every envelope arriving on the shared topic. It returns
// nil from HandleMessage only once the row is written, so the broker client
// acknowledges (commits) strictly after persistence: at-least-once, with a
// duplicate row possible when a crash lands between persist and ack.
type Consumer struct {
	store ReadingStore
	state atomic.Int32
}

func NewConsumer(store ReadingStore) *Consumer {
	c := &Consumer{store: store}
	c.state.Store(int32(Connecting))
	return c
}

func (c *Consumer) State() State { return State(c.state.Load()) }

// Connected is wired to the broker's on-connect callback. It fires on the
// initial connect and again after every automatic resume.
func (c *Consumer) Connected() {
	c.state.Store(int32(Consuming))
	log.Info().Msg("consuming from broker")
}

// ConnectionLost is wired to the broker's connection-lost callback. The
// broker client stops and restarts the subscription itself; unacked
// messages are redelivered on resume.
func (c *Consumer) ConnectionLost(err error) {
	c.state.Store(int32(Disconnected))
	log.Warn().Err(err).Msg("broker connection lost, awaiting resume")
}

// HandleMessage demultiplexes one envelope and persists the reading through
// its typed insert. An unknown kind is dropped (returns nil) since
// redelivery could never succeed; a persistence failure is returned so the
// message stays unacknowledged.
func (c *Consumer) HandleMessage(env domain.Envelope) error {
	reading, err := env.Reading()
	if err != nil {
		if errors.Is(err, domain.ErrUnknownKind) {
			log.Error().Str("type", string(env.Type)).Msg("dropping envelope of unknown kind")
			return nil
		}
		return err
	}

	switch r := reading.(type) {
	case domain.TemperatureReading:
		log.Info().Str("trace_id", r.TraceID).Msg("received temperature telemetry")
		return c.store.InsertTemperature(r)
	case domain.EnvironmentReading:
		log.Info().Str("trace_id", r.TraceID).Msg("received environment telemetry")
		return c.store.InsertEnvironment(r)
	default:
		return fmt.Errorf("unhandled reading kind %q", reading.Kind())
	}
}
