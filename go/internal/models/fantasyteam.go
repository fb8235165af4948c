package models

import (
	"time"

	"github.com/google/uuid"
)

// FantasyTeam belongs to exactly one league. OwnerID is nil for
// unclaimed/demo teams.
type FantasyTeam struct {
	ID        uuid.UUID  `json:"id"`
	LeagueID  uuid.UUID  `json:"league_id"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	Name      string     `json:"name"`
	LogoURL   string     `json:"logo_url"`
	CreatedAt time.Time  `json:"created_at"`
}
