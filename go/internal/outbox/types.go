package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is one row of the roster outbox: a committed transaction event
// waiting for delivery. Rows are written in the same database transaction as
// the roster change itself, so delivery can lag or fail without the ledger
// ever disagreeing with what was published.
type OutboxEvent struct {
	ID        uuid.UUID       `json:"id"`
	LeagueID  uuid.UUID       `json:"league_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}
