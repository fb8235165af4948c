package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher delivers one outbox event to the message bus
type Publisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}

// NATSPublisher publishes roster events to NATS, one subject per league so
// consumers can subscribe to a single league or the whole firehose.
type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher creates a publisher on an existing NATS connection
func NewNATSPublisher(nc *nats.Conn, subjectPrefix string) *NATSPublisher {
	if subjectPrefix == "" {
		subjectPrefix = "league.roster"
	}
	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix}
}

func (p *NATSPublisher) Publish(_ context.Context, event OutboxEvent) error {
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event.LeagueID)

	envelope := map[string]interface{}{
		"eventId":   event.ID.String(),
		"eventType": event.EventType,
		"leagueId":  event.LeagueID.String(),
		"timestamp": event.CreatedAt,
		"payload":   json.RawMessage(event.Payload),
	}
	msg, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.nc.Publish(subject, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// LogPublisher logs events instead of delivering them, for development
// without a broker.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event OutboxEvent) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Str("league_id", event.LeagueID.String()).
		Msg("publishing event")
	return nil
}
