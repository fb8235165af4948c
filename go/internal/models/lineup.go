package models

import (
	"time"

	"github.com/google/uuid"
)

// SlotID identifies a configured starter slot, e.g. "C1", "LW2", "G1".
type SlotID string

// LineupProjection is the derived partition of a team's current roster into
// starters, bench and injured reserve for one date. It is always rebuilt from
// roster entries plus slot preferences and carries no authority of its own.
type LineupProjection struct {
	FantasyTeamID uuid.UUID             `json:"fantasy_team_id"`
	Date          string                `json:"date"` // YYYY-MM-DD
	Starters      map[SlotID]uuid.UUID  `json:"starters"`
	Bench         []uuid.UUID           `json:"bench"`
	InjuredRes    []uuid.UUID           `json:"injured_reserve"`
	Notes         []LineupCapacityNote  `json:"notes,omitempty"`
	Stale         bool                  `json:"stale"`
	ComputedAt    time.Time             `json:"computed_at"`
}

// LineupCapacityNote reports a player the projection could not place where
// requested (e.g. IR requested with no IR slot free). The player is still
// carried on the bench; he is never silently dropped.
type LineupCapacityNote struct {
	PlayerID uuid.UUID `json:"player_id"`
	Reason   string    `json:"reason"`
}

// SlotPreference is an owner's requested placement for one rostered player.
type SlotPreference struct {
	FantasyTeamID uuid.UUID `json:"fantasy_team_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	Slot          SlotID    `json:"slot"` // "BENCH" and "IR" are reserved pseudo-slots
}

const (
	SlotBench SlotID = "BENCH"
	SlotIR    SlotID = "IR"
)
