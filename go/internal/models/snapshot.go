package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DailyRosterSnapshot is the frozen copy of a LineupProjection taken when a
// scoring period locks. Created once per (team, matchup, date); once Locked
// is set, roster-management code never touches it again. The scoring
// subsystem reads these rows for historical scoring.
type DailyRosterSnapshot struct {
	ID            uuid.UUID       `json:"id"`
	FantasyTeamID uuid.UUID       `json:"fantasy_team_id"`
	MatchupID     uuid.UUID       `json:"matchup_id"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Lineup        json.RawMessage `json:"lineup"` // LineupProjection at lock time
	Locked        bool            `json:"locked"`
	LockedAt      time.Time       `json:"locked_at"`
}
