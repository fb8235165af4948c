package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// ConsumerConfig holds configuration for the NATS event consumer
type ConsumerConfig struct {
	URL           string
	SubjectFilter string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConsumerConfig returns default NATS consumer configuration
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		URL:           nats.DefaultURL,
		SubjectFilter: "league.roster.>",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// EventConsumer bridges the message bus to the WebSocket pools: every roster
// event published by the outbox gets pushed to the league's connected clients.
type EventConsumer struct {
	connectionManager *ConnectionManager
	nc                *nats.Conn
	sub               *nats.Subscription
	config            ConsumerConfig
}

// NewEventConsumer connects to NATS and prepares the subscription
func NewEventConsumer(cm *ConnectionManager, config ConsumerConfig) (*EventConsumer, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &EventConsumer{
		connectionManager: cm,
		nc:                nc,
		config:            config,
	}, nil
}

// Start subscribes and begins forwarding events
func (ec *EventConsumer) Start() error {
	sub, err := ec.nc.Subscribe(ec.config.SubjectFilter, ec.handleMessage)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", ec.config.SubjectFilter, err)
	}
	ec.sub = sub

	log.Info().
		Str("subject", ec.config.SubjectFilter).
		Msg("gateway event consumer started")
	return nil
}

// Stop drains the subscription and closes the connection
func (ec *EventConsumer) Stop() error {
	if ec.sub != nil {
		if err := ec.sub.Drain(); err != nil {
			log.Error().Err(err).Msg("failed to drain subscription")
		}
	}
	ec.nc.Close()
	log.Info().Msg("gateway event consumer stopped")
	return nil
}

func (ec *EventConsumer) handleMessage(msg *nats.Msg) {
	var event LeagueEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Error().Err(err).
			Str("subject", msg.Subject).
			Msg("failed to decode league event")
		return
	}

	ec.connectionManager.BroadcastToLeague(event.LeagueID, &event)
}
