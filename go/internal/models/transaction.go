package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents a roster-affecting action
type TransactionType string

const (
	TransactionTypeAdd         TransactionType = "ADD"
	TransactionTypeDrop        TransactionType = "DROP"
	TransactionTypeTrade       TransactionType = "TRADE"
	TransactionTypeWaiverAward TransactionType = "WAIVER_AWARD"
	TransactionTypeDraftSync   TransactionType = "DRAFT_SYNC"
)

// OwnershipChange records one player's before/after ownership inside a
// ledger entry. Nil FromTeamID means the player was a free agent; nil
// ToTeamID means the player became one.
type OwnershipChange struct {
	PlayerID   uuid.UUID  `json:"player_id"`
	FromTeamID *uuid.UUID `json:"from_team_id,omitempty"`
	ToTeamID   *uuid.UUID `json:"to_team_id,omitempty"`
}

// TransactionLedgerEntry is the immutable audit record of a roster move.
// Rows are append-only; nothing in the system updates or deletes them.
type TransactionLedgerEntry struct {
	ID        uuid.UUID       `json:"id"`
	LeagueID  uuid.UUID       `json:"league_id"`
	TeamID    uuid.UUID       `json:"team_id"`
	ActorID   uuid.UUID       `json:"actor_id"`
	Type      TransactionType `json:"type"`
	Changes   json.RawMessage `json:"changes"` // []OwnershipChange
	CreatedAt time.Time       `json:"created_at"`
}

// DecodeChanges unmarshals the ownership-change payload
func (e *TransactionLedgerEntry) DecodeChanges() ([]OwnershipChange, error) {
	var changes []OwnershipChange
	if err := json.Unmarshal(e.Changes, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}
