package models

import (
	"time"

	"github.com/google/uuid"
)

// Position is an NHL skater/goalie position
type Position string

const (
	PositionCenter    Position = "C"
	PositionLeftWing  Position = "LW"
	PositionRightWing Position = "RW"
	PositionDefense   Position = "D"
	PositionGoalie    Position = "G"
)

// InjuryStatus is the league-office designation that gates IR eligibility
type InjuryStatus string

const (
	InjuryStatusHealthy    InjuryStatus = "HEALTHY"
	InjuryStatusDayToDay   InjuryStatus = "DTD"
	InjuryStatusInjured    InjuryStatus = "IR"
	InjuryStatusLongTerm   InjuryStatus = "LTIR"
	InjuryStatusSuspension InjuryStatus = "SUSPENDED"
)

// IREligible reports whether the status allows an injured-reserve slot
func (s InjuryStatus) IREligible() bool {
	return s == InjuryStatusInjured || s == InjuryStatusLongTerm
}

// Player represents an NHL player. ExternalID is the upstream numeric id
// normalized to a string at ingress, so identifier comparisons never cross
// representations.
type Player struct {
	ID           uuid.UUID    `json:"id"`
	ExternalID   string       `json:"external_id"`
	FullName     string       `json:"full_name"`
	NHLTeam      string       `json:"nhl_team"` // club abbreviation, e.g. "TOR"
	Position     Position     `json:"position"`
	InjuryStatus InjuryStatus `json:"injury_status"`
	CreatedAt    time.Time    `json:"created_at"`
}
