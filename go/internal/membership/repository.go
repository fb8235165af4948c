package membership

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/sqlutil"
)

// Repository answers membership questions straight from the leagues and
// fantasy_teams tables. No results are cached: team ownership can change
// between requests, so every authorization re-reads current rows.
type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

// IsCommissioner reports whether actorID is the league's commissioner.
func (r *Repository) IsCommissioner(ctx context.Context, actorID, leagueID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM leagues WHERE id = $1 AND commissioner_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, leagueID, actorID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check commissioner: %w", err)
	}
	return ok, nil
}

// OwnsTeamInLeague reports whether actorID owns a fantasy team in the league.
func (r *Repository) OwnsTeamInLeague(ctx context.Context, actorID, leagueID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM fantasy_teams WHERE league_id = $1 AND owner_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, leagueID, actorID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check team ownership: %w", err)
	}
	return ok, nil
}

// TeamOwner returns the owner of a fantasy team (nil for unclaimed teams)
// together with the league the team belongs to.
func (r *Repository) TeamOwner(ctx context.Context, teamID uuid.UUID) (*uuid.UUID, uuid.UUID, error) {
	const q = `SELECT owner_id, league_id FROM fantasy_teams WHERE id = $1`
	var owner uuid.NullUUID
	var leagueID uuid.UUID
	if err := r.db.QueryRowContext(ctx, q, teamID).Scan(&owner, &leagueID); err != nil {
		if err == sql.ErrNoRows {
			return nil, uuid.Nil, fmt.Errorf("team not found: %w", err)
		}
		return nil, uuid.Nil, fmt.Errorf("failed to get team owner: %w", err)
	}
	return sqlutil.FromNullUUID(owner), leagueID, nil
}
