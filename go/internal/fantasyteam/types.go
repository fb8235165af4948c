package fantasyteam

import "github.com/google/uuid"

// CreateFantasyTeamRequest represents the data needed to create a new fantasy team
type CreateFantasyTeamRequest struct {
	LeagueID uuid.UUID  `json:"league_id"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
	Name     string     `json:"name"`
	LogoURL  string     `json:"logo_url"`
}

// UpdateFantasyTeamRequest represents the data that can be updated for a fantasy team
type UpdateFantasyTeamRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// ClaimFantasyTeamRequest assigns an owner to an unclaimed team
type ClaimFantasyTeamRequest struct {
	OwnerID uuid.UUID `json:"owner_id"`
}
