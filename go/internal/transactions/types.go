package transactions

import (
	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
)

// Move is one requested roster action. Exactly one shape is populated,
// selected by Type:
//   - Add: PlayerID, optional DropPlayerID to make room
//   - Drop: PlayerID
//   - Trade: PlayersOut/PlayersIn with CounterpartyTeamID
//   - WaiverAward: PlayerID, optional DropPlayerID
type Move struct {
	Type               models.TransactionType `json:"type"`
	PlayerID           uuid.UUID              `json:"player_id,omitempty"`
	DropPlayerID       *uuid.UUID             `json:"drop_player_id,omitempty"`
	PlayersOut         []uuid.UUID            `json:"players_out,omitempty"`
	PlayersIn          []uuid.UUID            `json:"players_in,omitempty"`
	CounterpartyTeamID *uuid.UUID             `json:"counterparty_team_id,omitempty"`
}

// ApplyMoveRequest is a move plus the acting team and the authenticated
// actor. The actor id comes from the server-side identity layer, never from
// the request body.
type ApplyMoveRequest struct {
	LeagueID uuid.UUID
	TeamID   uuid.UUID
	ActorID  uuid.UUID
	Move     Move
}

// DraftResult is one pick produced by the draft subsystem
type DraftResult struct {
	ID            uuid.UUID `json:"id"`
	LeagueID      uuid.UUID `json:"league_id"`
	FantasyTeamID uuid.UUID `json:"fantasy_team_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	OverallPick   int       `json:"overall_pick"`
}

// TransactionEvent is the outbox envelope payload for a committed move
type TransactionEvent struct {
	TransactionID uuid.UUID                `json:"transaction_id"`
	LeagueID      uuid.UUID                `json:"league_id"`
	TeamID        uuid.UUID                `json:"team_id"`
	Type          models.TransactionType   `json:"type"`
	Changes       []models.OwnershipChange `json:"changes"`
}
