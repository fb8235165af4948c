package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LeagueEvent is what the gateway pushes to connected clients: the outbox
// envelope for one committed roster transaction.
type LeagueEvent struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	LeagueID  uuid.UUID       `json:"leagueId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}
