package player

import "github.com/pondside/faceoff/go/internal/models"

// UpsertPlayerRequest carries one player from an external feed. ExternalID is
// whatever the upstream uses (typically a numeric id); it is normalized to a
// string before it ever reaches a query, so string-vs-numeric identifier
// comparisons cannot happen downstream.
type UpsertPlayerRequest struct {
	ExternalID   string              `json:"external_id"`
	FullName     string              `json:"full_name"`
	NHLTeam      string              `json:"nhl_team"`
	Position     models.Position     `json:"position"`
	InjuryStatus models.InjuryStatus `json:"injury_status"`
}
