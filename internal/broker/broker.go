package broker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

// ErrConnectionExhausted reports that the initial broker connection failed
// MaxRetries times. Callers treat it as fatal; the ingress path has no
// buffering fallback.
var ErrConnectionExhausted = errors.New("broker connection retries exhausted")

type Options struct {
	URL      string
	ClientID string
	Topic    string

	MaxRetries int
	RetryDelay time.Duration

	// Durable enables a persistent session and manual acks, so an
	// interrupted subscriber resumes from its last acknowledged message.
	// Ephemeral publishers leave it false.
	Durable bool

	OnConnect        func()
	OnConnectionLost func(error)
}

// Client owns one connection to the broker. Components receive a *Client at
// construction; nothing broker-related lives in package state.
type Client struct {
	mqtt  mqtt.Client
	topic string
}

// newMQTTClient is a seam for tests.
var newMQTTClient = mqtt.NewClient

// Connect establishes the broker connection, retrying up to MaxRetries with
// a fixed delay. Exhausting retries returns ErrConnectionExhausted.
func Connect(opts Options) (*Client, error) {
	mopts := mqtt.NewClientOptions().
		AddBroker(opts.URL).
		SetClientID(opts.ClientID).
		SetOrderMatters(true).
		SetCleanSession(!opts.Durable).
		SetAutoReconnect(opts.Durable).
		SetResumeSubs(opts.Durable)
	if opts.Durable {
		mopts.SetAutoAckDisabled(true)
	}
	if opts.OnConnect != nil {
		mopts.SetOnConnectHandler(func(mqtt.Client) { opts.OnConnect() })
	}
	if opts.OnConnectionLost != nil {
		mopts.SetConnectionLostHandler(func(_ mqtt.Client, err error) { opts.OnConnectionLost(err) })
	}

	client := newMQTTClient(mopts)
	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		token := client.Connect()
		if token.Wait() && token.Error() == nil {
			return &Client{mqtt: client, topic: opts.Topic}, nil
		}
		log.Error().Err(token.Error()).Int("attempt", attempt).Msg("broker connection failed")
		time.Sleep(opts.RetryDelay)
	}
	return nil, fmt.Errorf("%w (%d)", ErrConnectionExhausted, opts.MaxRetries)
}

// Publish sends one envelope at QoS 1. On a transport failure it performs
// exactly one reconnect-and-resend of the same message before surfacing the
// error; delivery is at-least-once and duplicates are possible across the
// reconnect.
func (c *Client) Publish(env domain.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := c.send(payload); err != nil {
		log.Warn().Err(err).Msg("publish failed, reconnecting once")
		if err := c.reconnect(); err != nil {
			return err
		}
		if err := c.send(payload); err != nil {
			return fmt.Errorf("publish after reconnect: %w", err)
		}
	}
	return nil
}

func (c *Client) send(payload []byte) error {
	token := c.mqtt.Publish(c.topic, 1, false, payload)
	token.Wait()
	return token.Error()
}

func (c *Client) reconnect() error {
	c.mqtt.Disconnect(250)
	token := c.mqtt.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("reconnect: %w", token.Error())
	}
	return nil
}

// Subscribe consumes envelopes from the topic at QoS 1 and hands each to fn.
// With a durable session the message is acknowledged only after fn returns
// nil, so a crash between persist and ack causes redelivery (at-least-once).
// Undecodable messages are acknowledged and dropped; redelivering them could
// never succeed.
func (c *Client) Subscribe(fn func(domain.Envelope) error) error {
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var env domain.Envelope
		if err := json.Unmarshal(msg.Payload(), &env); err != nil {
			log.Error().Err(err).Msg("dropping undecodable message")
			msg.Ack()
			return
		}
		if err := fn(env); err != nil {
			log.Error().Err(err).Str("type", string(env.Type)).Msg("message handler failed, leaving unacked")
			return
		}
		msg.Ack()
	}
	token := c.mqtt.Subscribe(c.topic, 1, handler)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", c.topic, token.Error())
	}
	return nil
}

// Disconnect closes the connection, allowing in-flight work to finish.
func (c *Client) Disconnect() {
	c.mqtt.Disconnect(250)
}
