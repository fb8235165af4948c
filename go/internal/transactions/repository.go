package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/sqlutil"
)

// Postgres error codes that turn into our taxonomy
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// Repository executes the queries the transaction processor composes inside
// one atomic unit. All methods are tx-safe: bound to a *sql.Tx via Atomic,
// they share that transaction.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new transactions repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

// Atomic runs fn with a repository bound to a single transaction. Either
// every statement fn issues commits together or none do. Nested calls reuse
// the enclosing transaction.
func (r *Repository) Atomic(ctx context.Context, fn func(Store) error) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return fn(r)
	}
	return sqlutil.Run(ctx, db, func(tx *sql.Tx) error {
		return fn(r.WithTx(tx))
	})
}

// OwnerOf returns the team currently holding the player, nil for free agents
func (r *Repository) OwnerOf(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error) {
	const q = `SELECT fantasy_team_id FROM roster_entries WHERE league_id = $1 AND player_id = $2`

	var teamID uuid.UUID
	err := r.db.QueryRowContext(ctx, q, leagueID, playerID).Scan(&teamID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
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

// InsertRosterEntry claims a player for a team. A unique violation on
// (league_id, player_id) means another writer got there first and maps to
// ErrPlayerNotFree.
func (r *Repository) InsertRosterEntry(ctx context.Context, leagueID, teamID, playerID uuid.UUID, acq models.AcquisitionType) error {
	const q = `
		INSERT INTO roster_entries (id, league_id, fantasy_team_id, player_id, acquisition_type)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, q, uuid.New(), leagueID, teamID, playerID, acq)
	if err != nil {
		return mapPgError(err, "failed to insert roster entry")
	}
	return nil
}

// InsertRosterEntryIfAbsent inserts unless the player is already rostered in
// the league, reporting whether a row landed. Used by draft sync so re-runs
// are idempotent.
func (r *Repository) InsertRosterEntryIfAbsent(ctx context.Context, leagueID, teamID, playerID uuid.UUID, acq models.AcquisitionType) (bool, error) {
	const q = `
		INSERT INTO roster_entries (id, league_id, fantasy_team_id, player_id, acquisition_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (league_id, player_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, q, uuid.New(), leagueID, teamID, playerID, acq)
	if err != nil {
		return false, mapPgError(err, "failed to insert roster entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// DeleteRosterEntry removes a player from a team's roster, reporting whether
// a row was actually removed.
func (r *Repository) DeleteRosterEntry(ctx context.Context, leagueID, teamID, playerID uuid.UUID) (bool, error) {
	const q = `DELETE FROM roster_entries WHERE league_id = $1 AND fantasy_team_id = $2 AND player_id = $3`

	res, err := r.db.ExecContext(ctx, q, leagueID, teamID, playerID)
	if err != nil {
		return false, mapPgError(err, "failed to delete roster entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// AppendLedgerEntry writes one immutable audit row. There is no update or
// delete counterpart anywhere in the codebase.
func (r *Repository) AppendLedgerEntry(ctx context.Context, e *models.TransactionLedgerEntry) error {
	const q = `
		INSERT INTO transaction_ledger (id, league_id, team_id, actor_id, type, changes)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, q, e.ID, e.LeagueID, e.TeamID, e.ActorID, e.Type, []byte(e.Changes))
	if err != nil {
		return mapPgError(err, "failed to append ledger entry")
	}
	return nil
}

// LedgerEntries returns the league's audit trail, newest first
func (r *Repository) LedgerEntries(ctx context.Context, leagueID uuid.UUID, limit int) ([]models.TransactionLedgerEntry, error) {
	const q = `
		SELECT id, league_id, team_id, actor_id, type, changes, created_at
		FROM transaction_ledger
		WHERE league_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, q, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TransactionLedgerEntry
	for rows.Next() {
		var e models.TransactionLedgerEntry
		var changes []byte
		if err := rows.Scan(&e.ID, &e.LeagueID, &e.TeamID, &e.ActorID, &e.Type, &changes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Changes = changes
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertOutboxEvent queues a notification in the same transaction as the
// roster change that produced it.
func (r *Repository) InsertOutboxEvent(ctx context.Context, leagueID uuid.UUID, eventType string, payload []byte) error {
	const q = `
		INSERT INTO roster_outbox (id, league_id, event_type, payload)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, q, uuid.New(), leagueID, eventType, payload); err != nil {
		return mapPgError(err, "failed to insert outbox event")
	}
	return nil
}

// MarkLineupStale flags every projection of the team for recomputation
func (r *Repository) MarkLineupStale(ctx context.Context, teamID uuid.UUID) error {
	const q = `UPDATE lineup_projections SET stale = TRUE WHERE fantasy_team_id = $1`

	if _, err := r.db.ExecContext(ctx, q, teamID); err != nil {
		return mapPgError(err, "failed to mark lineup stale")
	}
	return nil
}

// WaiverClearsAt returns when the player's waiver period ends, or nil when
// the player is not on waivers at all. Callers compare against the clock;
// an expired row means the player cleared unclaimed.
func (r *Repository) WaiverClearsAt(ctx context.Context, leagueID, playerID uuid.UUID) (*time.Time, error) {
	const q = `SELECT clears_at FROM waiver_players WHERE league_id = $1 AND player_id = $2`

	var clearsAt time.Time
	if err := r.db.QueryRowContext(ctx, q, leagueID, playerID).Scan(&clearsAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check waiver status: %w", err)
	}
	return &clearsAt, nil
}

// RemoveFromWaivers clears a player's waiver status
func (r *Repository) RemoveFromWaivers(ctx context.Context, leagueID, playerID uuid.UUID) error {
	const q = `DELETE FROM waiver_players WHERE league_id = $1 AND player_id = $2`
	if _, err := r.db.ExecContext(ctx, q, leagueID, playerID); err != nil {
		return mapPgError(err, "failed to remove player from waivers")
	}
	return nil
}

// PlaceOnWaivers puts a dropped player on waivers until clearsAt
func (r *Repository) PlaceOnWaivers(ctx context.Context, leagueID, playerID uuid.UUID, clearsAt time.Time) error {
	const q = `
		INSERT INTO waiver_players (league_id, player_id, clears_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (league_id, player_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, leagueID, playerID, clearsAt); err != nil {
		return mapPgError(err, "failed to place player on waivers")
	}
	return nil
}

// ClaimantPriorities returns, for teams with a pending claim on the player,
// each team's waiver priority (lower number claims first).
func (r *Repository) ClaimantPriorities(ctx context.Context, leagueID, playerID uuid.UUID) (map[uuid.UUID]int, error) {
	const q = `
		SELECT wc.fantasy_team_id, wp.priority
		FROM waiver_claims wc
		JOIN waiver_priority wp
		  ON wp.league_id = wc.league_id AND wp.fantasy_team_id = wc.fantasy_team_id
		WHERE wc.league_id = $1 AND wc.player_id = $2`

	rows, err := r.db.QueryContext(ctx, q, leagueID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claimant priorities: %w", err)
	}
	defer rows.Close()

	priorities := make(map[uuid.UUID]int)
	for rows.Next() {
		var teamID uuid.UUID
		var priority int
		if err := rows.Scan(&teamID, &priority); err != nil {
			return nil, fmt.Errorf("failed to scan claimant priority: %w", err)
		}
		priorities[teamID] = priority
	}
	return priorities, rows.Err()
}

// FileWaiverClaim records a team's pending claim on a waived player
func (r *Repository) FileWaiverClaim(ctx context.Context, leagueID, playerID, teamID uuid.UUID) error {
	const q = `
		INSERT INTO waiver_claims (league_id, player_id, fantasy_team_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, leagueID, playerID, teamID); err != nil {
		return mapPgError(err, "failed to file waiver claim")
	}
	return nil
}

// DeleteClaims clears all pending claims for the player
func (r *Repository) DeleteClaims(ctx context.Context, leagueID, playerID uuid.UUID) error {
	const q = `DELETE FROM waiver_claims WHERE league_id = $1 AND player_id = $2`
	if _, err := r.db.ExecContext(ctx, q, leagueID, playerID); err != nil {
		return mapPgError(err, "failed to delete waiver claims")
	}
	return nil
}

// RotatePriorityToBack sends the winning team to the back of the waiver
// order (rolling policy). Remaining teams each move up one.
func (r *Repository) RotatePriorityToBack(ctx context.Context, leagueID, teamID uuid.UUID) error {
	const q = `
		UPDATE waiver_priority wp SET priority = sub.new_priority
		FROM (
			SELECT fantasy_team_id,
			       CASE WHEN fantasy_team_id = $2
			            THEN (SELECT MAX(priority) FROM waiver_priority WHERE league_id = $1)
			            ELSE priority - 1
			       END AS new_priority
			FROM waiver_priority
			WHERE league_id = $1
			  AND priority >= (SELECT priority FROM waiver_priority WHERE league_id = $1 AND fantasy_team_id = $2)
		) sub
		WHERE wp.league_id = $1 AND wp.fantasy_team_id = sub.fantasy_team_id`

	if _, err := r.db.ExecContext(ctx, q, leagueID, teamID); err != nil {
		return mapPgError(err, "failed to rotate waiver priority")
	}
	return nil
}

// UnsyncedDraftResults returns draft picks with no matching roster entry yet
func (r *Repository) UnsyncedDraftResults(ctx context.Context, leagueID uuid.UUID) ([]DraftResult, error) {
	const q = `
		SELECT dr.id, dr.league_id, dr.fantasy_team_id, dr.player_id, dr.overall_pick
		FROM draft_results dr
		LEFT JOIN roster_entries re
		  ON re.league_id = dr.league_id AND re.player_id = dr.player_id
		WHERE dr.league_id = $1 AND re.id IS NULL
		ORDER BY dr.overall_pick`

	rows, err := r.db.QueryContext(ctx, q, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unsynced draft results: %w", err)
	}
	defer rows.Close()

	var results []DraftResult
	for rows.Next() {
		var d DraftResult
		if err := rows.Scan(&d.ID, &d.LeagueID, &d.FantasyTeamID, &d.PlayerID, &d.OverallPick); err != nil {
			return nil, fmt.Errorf("failed to scan draft result: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// mapPgError folds Postgres constraint and serialization failures into the
// move error taxonomy; anything else is wrapped as-is.
func mapPgError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return ErrPlayerNotFree
		case pgSerializationFailure:
			return ErrConcurrentModification
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
