package roster

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/sqlutil"
)

// Repository reads the roster ledger. Mutations happen only through the
// transaction processor so every change lands with its ledger entry.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new roster repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const entryColumns = `id, league_id, fantasy_team_id, player_id, acquired_at, acquisition_type`

// CurrentRoster returns the team's current roster entries
func (r *Repository) CurrentRoster(ctx context.Context, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error) {
	q := `SELECT ` + entryColumns + `
		FROM roster_entries
		WHERE league_id = $1 AND fantasy_team_id = $2
		ORDER BY acquired_at`

	rows, err := r.db.QueryContext(ctx, q, leagueID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current roster: %w", err)
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(&e.ID, &e.LeagueID, &e.FantasyTeamID, &e.PlayerID, &e.AcquiredAt, &e.AcquisitionType); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// OwnerOf returns the team currently holding the player in the league, or
// nil if the player is a free agent there.
func (r *Repository) OwnerOf(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error) {
	const q = `SELECT fantasy_team_id FROM roster_entries WHERE league_id = $1 AND player_id = $2`

	var teamID uuid.UUID
	err := r.db.QueryRowContext(ctx, q, leagueID, playerID).Scan(&teamID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner of player: %w", err)
	}
	return &teamID, nil
}

// RosterCount returns how many players the team currently holds
func (r *Repository) RosterCount(ctx context.Context, leagueID, teamID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM roster_entries WHERE league_id = $1 AND fantasy_team_id = $2`

	var n int
	if err := r.db.QueryRowContext(ctx, q, leagueID, teamID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count roster: %w", err)
	}
	return n, nil
}
