package lineup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Repository persists slot preferences, derived projections and the locked
// daily snapshots.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new lineup repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

// SlotPreferences returns the team's slot preferences keyed by player
func (r *Repository) SlotPreferences(ctx context.Context, teamID uuid.UUID) (map[uuid.UUID]models.SlotID, error) {
	const q = `SELECT player_id, slot FROM lineup_preferences WHERE fantasy_team_id = $1`

	rows, err := r.db.QueryContext(ctx, q, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[uuid.UUID]models.SlotID)
	for rows.Next() {
		var playerID uuid.UUID
		var slot models.SlotID
		if err := rows.Scan(&playerID, &slot); err != nil {
			return nil, fmt.Errorf("failed to scan slot preference: %w", err)
		}
		prefs[playerID] = slot
	}
	return prefs, rows.Err()
}

// SetSlotPreference upserts one player's requested slot
func (r *Repository) SetSlotPreference(ctx context.Context, teamID, playerID uuid.UUID, slot models.SlotID) error {
	const q = `INSERT INTO lineup_preferences (fantasy_team_id, player_id, slot)
		VALUES ($1, $2, $3)
		ON CONFLICT (fantasy_team_id, player_id) DO UPDATE SET slot = EXCLUDED.slot`

	if _, err := r.db.ExecContext(ctx, q, teamID, playerID, slot); err != nil {
		return fmt.Errorf("failed to set slot preference: %w", err)
	}
	return nil
}

// DeleteSlotPreference removes a player's preference, e.g. after a drop
func (r *Repository) DeleteSlotPreference(ctx context.Context, teamID, playerID uuid.UUID) error {
	const q = `DELETE FROM lineup_preferences WHERE fantasy_team_id = $1 AND player_id = $2`

	if _, err := r.db.ExecContext(ctx, q, teamID, playerID); err != nil {
		return fmt.Errorf("failed to delete slot preference: %w", err)
	}
	return nil
}

// GetProjection returns the stored projection for the team and date. A row
// whose lineup is NULL is a stale placeholder planted before the first
// compute; it comes back as (nil, true, nil) so the caller recomputes.
func (r *Repository) GetProjection(ctx context.Context, teamID uuid.UUID, date string) (*models.LineupProjection, bool, error) {
	const q = `SELECT lineup, stale FROM lineup_projections WHERE fantasy_team_id = $1 AND date = $2`

	var lineup pqtype.NullRawMessage
	var stale bool
	err := r.db.QueryRowContext(ctx, q, teamID, date).Scan(&lineup, &stale)
	if err == sql.ErrNoRows {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get lineup projection: %w", err)
	}
	if !lineup.Valid {
		return nil, true, nil
	}

	var proj models.LineupProjection
	if err := json.Unmarshal(lineup.RawMessage, &proj); err != nil {
		return nil, false, fmt.Errorf("failed to decode lineup projection: %w", err)
	}
	proj.Stale = stale
	return &proj, stale, nil
}

// SaveProjection upserts a freshly computed projection and clears the stale flag
func (r *Repository) SaveProjection(ctx context.Context, proj *models.LineupProjection) error {
	lineup, err := json.Marshal(proj)
	if err != nil {
		return fmt.Errorf("failed to encode lineup projection: %w", err)
	}

	const q = `INSERT INTO lineup_projections (fantasy_team_id, date, lineup, stale, computed_at)
		VALUES ($1, $2, $3, FALSE, $4)
		ON CONFLICT (fantasy_team_id, date) DO UPDATE
		SET lineup = EXCLUDED.lineup, stale = FALSE, computed_at = EXCLUDED.computed_at`

	if _, err := r.db.ExecContext(ctx, q, proj.FantasyTeamID, proj.Date, lineup, proj.ComputedAt); err != nil {
		return fmt.Errorf("failed to save lineup projection: %w", err)
	}
	return nil
}

// MarkStale plants or flags the projection row for the date. The lineup
// itself is left as-is (or NULL for a new row); the next read recomputes.
func (r *Repository) MarkStale(ctx context.Context, teamID uuid.UUID, date string) error {
	const q = `INSERT INTO lineup_projections (fantasy_team_id, date, lineup, stale)
		VALUES ($1, $2, NULL, TRUE)
		ON CONFLICT (fantasy_team_id, date) DO UPDATE SET stale = TRUE`

	if _, err := r.db.ExecContext(ctx, q, teamID, date); err != nil {
		return fmt.Errorf("failed to mark lineup projection stale: %w", err)
	}
	return nil
}

// GetSnapshot returns the snapshot for the team, matchup and date, or nil
func (r *Repository) GetSnapshot(ctx context.Context, teamID, matchupID uuid.UUID, date string) (*models.DailyRosterSnapshot, error) {
	const q = `SELECT id, fantasy_team_id, matchup_id, date, lineup, locked, locked_at
		FROM daily_roster_snapshots
		WHERE fantasy_team_id = $1 AND matchup_id = $2 AND date = $3`

	var s models.DailyRosterSnapshot
	var lockedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, teamID, matchupID, date).
		Scan(&s.ID, &s.FantasyTeamID, &s.MatchupID, &s.Date, &s.Lineup, &s.Locked, &lockedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily roster snapshot: %w", err)
	}
	if t := sqlutil.FromSqlTime(lockedAt); t != nil {
		s.LockedAt = *t
	}
	return &s, nil
}

// IsDateLocked reports whether any matchup has frozen this team's date
func (r *Repository) IsDateLocked(ctx context.Context, teamID uuid.UUID, date string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM daily_roster_snapshots
		WHERE fantasy_team_id = $1 AND date = $2 AND locked
	)`

	var locked bool
	if err := r.db.QueryRowContext(ctx, q, teamID, date).Scan(&locked); err != nil {
		return false, fmt.Errorf("failed to check date lock: %w", err)
	}
	return locked, nil
}

// LockedSnapshotForDate returns the locked snapshot covering the date, or nil
func (r *Repository) LockedSnapshotForDate(ctx context.Context, teamID uuid.UUID, date string) (*models.DailyRosterSnapshot, error) {
	const q = `SELECT id, fantasy_team_id, matchup_id, date, lineup, locked, locked_at
		FROM daily_roster_snapshots
		WHERE fantasy_team_id = $1 AND date = $2 AND locked
		LIMIT 1`

	var s models.DailyRosterSnapshot
	var lockedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, teamID, date).
		Scan(&s.ID, &s.FantasyTeamID, &s.MatchupID, &s.Date, &s.Lineup, &s.Locked, &lockedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get locked snapshot: %w", err)
	}
	if t := sqlutil.FromSqlTime(lockedAt); t != nil {
		s.LockedAt = *t
	}
	return &s, nil
}

// InsertSnapshot writes a frozen snapshot. The uniqueness constraint on
// (fantasy_team_id, matchup_id, date) makes a second lock attempt a no-op;
// the return reports whether this call created the row.
func (r *Repository) InsertSnapshot(ctx context.Context, s *models.DailyRosterSnapshot) (bool, error) {
	const q = `INSERT INTO daily_roster_snapshots (id, fantasy_team_id, matchup_id, date, lineup, locked, locked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (fantasy_team_id, matchup_id, date) DO NOTHING`

	res, err := r.db.ExecContext(ctx, q, s.ID, s.FantasyTeamID, s.MatchupID, s.Date, s.Lineup, s.Locked, sqlutil.ToSqlTime(&s.LockedAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert daily roster snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
