package models

import (
	"time"

	"github.com/google/uuid"
)

// RosterEntry is the current-ownership fact: this player is rostered to this
// team in this league. A (league, player) pair maps to at most one team at any
// instant; the database enforces it with a uniqueness constraint.
type RosterEntry struct {
	ID              uuid.UUID       `json:"id"`
	LeagueID        uuid.UUID       `json:"league_id"`
	FantasyTeamID   uuid.UUID       `json:"fantasy_team_id"`
	PlayerID        uuid.UUID       `json:"player_id"`
	AcquiredAt      time.Time       `json:"acquired_at"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
}

// AcquisitionType represents how a player was acquired
type AcquisitionType string

const (
	AcquisitionTypeDraft     AcquisitionType = "DRAFT"
	AcquisitionTypeWaiver    AcquisitionType = "WAIVER"
	AcquisitionTypeTrade     AcquisitionType = "TRADE"
	AcquisitionTypeFreeAgent AcquisitionType = "FREE_AGENT"
)
