package leagues

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/sqlutil"
)

// Repository implements league data access operations
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new leagues repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const leagueColumns = `id, name, commissioner_id, settings, status, season, created_at, updated_at`

func (r *Repository) scanLeague(row *sql.Row) (*models.League, error) {
	var l models.League
	var settings []byte
	err := row.Scan(&l.ID, &l.Name, &l.CommissionerID, &settings, &l.Status, &l.Season, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(settings, &l.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal league settings: %w", err)
	}
	return &l, nil
}

// CreateLeague creates a new league
func (r *Repository) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	settingsJSON, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal league settings: %w", err)
	}

	q := `
		INSERT INTO leagues (id, name, commissioner_id, settings, status, season)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + leagueColumns

	league, err := r.scanLeague(r.db.QueryRowContext(ctx, q,
		uuid.New(), req.Name, req.CommissionerID, settingsJSON, req.Status, req.Season))
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	return league, nil
}

// GetLeague retrieves a league by ID
func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	q := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = $1`
	league, err := r.scanLeague(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return league, nil
}

// GetLeaguesByCommissioner retrieves leagues by commissioner ID
func (r *Repository) GetLeaguesByCommissioner(ctx context.Context, commissionerID uuid.UUID) ([]models.League, error) {
	q := `SELECT ` + leagueColumns + ` FROM leagues WHERE commissioner_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, commissionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leagues by commissioner: %w", err)
	}
	defer rows.Close()

	var leagues []models.League
	for rows.Next() {
		var l models.League
		var settings []byte
		if err := rows.Scan(&l.ID, &l.Name, &l.CommissionerID, &settings, &l.Status, &l.Season, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		if err := json.Unmarshal(settings, &l.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal league settings: %w", err)
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

// UpdateLeague updates an existing league
func (r *Repository) UpdateLeague(ctx context.Context, id uuid.UUID, req UpdateLeagueRequest) (*models.League, error) {
	settingsJSON, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal league settings: %w", err)
	}

	q := `
		UPDATE leagues
		SET name = $2, settings = $3, status = $4, season = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + leagueColumns

	league, err := r.scanLeague(r.db.QueryRowContext(ctx, q, id, req.Name, settingsJSON, req.Status, req.Season))
	if err != nil {
		return nil, fmt.Errorf("failed to update league: %w", err)
	}
	return league, nil
}

// UpdateLeagueSettings updates only the settings of a league
func (r *Repository) UpdateLeagueSettings(ctx context.Context, id uuid.UUID, settings models.LeagueSettings) (*models.League, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal league settings: %w", err)
	}

	q := `UPDATE leagues SET settings = $2, updated_at = now() WHERE id = $1 RETURNING ` + leagueColumns
	league, err := r.scanLeague(r.db.QueryRowContext(ctx, q, id, settingsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to update league settings: %w", err)
	}
	return league, nil
}

// DeleteLeague deletes a league by ID (administrative cascade)
func (r *Repository) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}
	return nil
}
