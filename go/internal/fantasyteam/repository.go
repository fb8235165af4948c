package fantasyteam

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/sqlutil"
)

// Repository implements fantasy team data access operations
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new fantasy team repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const teamColumns = `id, league_id, owner_id, name, logo_url, created_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (*models.FantasyTeam, error) {
	var t models.FantasyTeam
	var owner uuid.NullUUID
	if err := row.Scan(&t.ID, &t.LeagueID, &owner, &t.Name, &t.LogoURL, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.OwnerID = sqlutil.FromNullUUID(owner)
	return &t, nil
}

// CreateFantasyTeam creates a new fantasy team
func (r *Repository) CreateFantasyTeam(ctx context.Context, req CreateFantasyTeamRequest) (*models.FantasyTeam, error) {
	q := `
		INSERT INTO fantasy_teams (id, league_id, owner_id, name, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + teamColumns

	team, err := scanTeam(r.db.QueryRowContext(ctx, q,
		uuid.New(), req.LeagueID, sqlutil.ToNullUUID(req.OwnerID), req.Name, req.LogoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create fantasy team: %w", err)
	}
	return team, nil
}

// GetFantasyTeam retrieves a fantasy team by ID
func (r *Repository) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	q := `SELECT ` + teamColumns + ` FROM fantasy_teams WHERE id = $1`
	team, err := scanTeam(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy team: %w", err)
	}
	return team, nil
}

// GetFantasyTeamsByLeague retrieves all fantasy teams in a league
func (r *Repository) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	q := `SELECT ` + teamColumns + ` FROM fantasy_teams WHERE league_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy teams by league: %w", err)
	}
	defer rows.Close()

	var teams []models.FantasyTeam
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fantasy team: %w", err)
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// GetFantasyTeamByLeagueAndOwner retrieves the team an owner holds in a league
func (r *Repository) GetFantasyTeamByLeagueAndOwner(ctx context.Context, leagueID, ownerID uuid.UUID) (*models.FantasyTeam, error) {
	q := `SELECT ` + teamColumns + ` FROM fantasy_teams WHERE league_id = $1 AND owner_id = $2`
	team, err := scanTeam(r.db.QueryRowContext(ctx, q, leagueID, ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy team by league and owner: %w", err)
	}
	return team, nil
}

// UpdateFantasyTeam updates name/logo of an existing fantasy team
func (r *Repository) UpdateFantasyTeam(ctx context.Context, id uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error) {
	q := `
		UPDATE fantasy_teams SET name = $2, logo_url = $3
		WHERE id = $1
		RETURNING ` + teamColumns

	team, err := scanTeam(r.db.QueryRowContext(ctx, q, id, req.Name, req.LogoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to update fantasy team: %w", err)
	}
	return team, nil
}

// ClaimFantasyTeam assigns an owner to an unclaimed team. The WHERE clause
// keeps two concurrent claims from both succeeding.
func (r *Repository) ClaimFantasyTeam(ctx context.Context, id, ownerID uuid.UUID) (*models.FantasyTeam, error) {
	q := `
		UPDATE fantasy_teams SET owner_id = $2
		WHERE id = $1 AND owner_id IS NULL
		RETURNING ` + teamColumns

	team, err := scanTeam(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("team already claimed or not found")
		}
		return nil, fmt.Errorf("failed to claim fantasy team: %w", err)
	}
	return team, nil
}

// DeleteFantasyTeam deletes a fantasy team by ID
func (r *Repository) DeleteFantasyTeam(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fantasy_teams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete fantasy team: %w", err)
	}
	return nil
}
