package models

import (
	"time"

	"github.com/google/uuid"
)

type LeagueStatus string

const (
	LeagueStatusPending   LeagueStatus = "PENDING"
	LeagueStatusActive    LeagueStatus = "ACTIVE"
	LeagueStatusCompleted LeagueStatus = "COMPLETED"
	LeagueStatusCancelled LeagueStatus = "CANCELLED"
)

// WaiverPolicy controls how waiver priority is reordered after a claim
type WaiverPolicy string

const (
	// WaiverPolicyRolling sends the winning team to the back of the order
	WaiverPolicyRolling WaiverPolicy = "ROLLING"
	// WaiverPolicyReverseStandings resets the order from standings each period
	WaiverPolicyReverseStandings WaiverPolicy = "REVERSE_STANDINGS"
)

// LeagueSettings is the per-league roster/slot configuration stored as JSONB
type LeagueSettings struct {
	RosterCap      int            `json:"roster_cap"`
	SlotCounts     map[string]int `json:"slot_counts"` // position -> starter slots, e.g. "C": 2
	BenchSize      int            `json:"bench_size"`
	IRSlots        int            `json:"ir_slots"`
	WaiverPolicy   WaiverPolicy   `json:"waiver_policy"`
	TradeVetoHours int            `json:"trade_veto_hours"`
}

// League represents a fantasy hockey league
type League struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	CommissionerID uuid.UUID      `json:"commissioner_id"`
	Settings       LeagueSettings `json:"settings"`
	Status         LeagueStatus   `json:"league_status"`
	Season         string         `json:"season"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
