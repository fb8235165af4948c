package leagues

import (
	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
)

// CreateLeagueRequest represents the data needed to create a new league
type CreateLeagueRequest struct {
	Name           string                `json:"name"`
	CommissionerID uuid.UUID             `json:"commissioner_id"`
	Settings       models.LeagueSettings `json:"settings"`
	Status         models.LeagueStatus   `json:"status"`
	Season         string                `json:"season"`
}

// UpdateLeagueRequest represents the data that can be updated for a league
type UpdateLeagueRequest struct {
	Name     string                `json:"name"`
	Settings models.LeagueSettings `json:"settings"`
	Status   models.LeagueStatus   `json:"status"`
	Season   string                `json:"season"`
}
