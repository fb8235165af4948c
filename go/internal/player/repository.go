package player

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/sqlutil"
)

// Repository implements player data access operations
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new player repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const playerColumns = `id, external_id, full_name, nhl_team, position, injury_status, created_at`

func scanPlayer(row interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.ExternalID, &p.FullName, &p.NHLTeam, &p.Position, &p.InjuryStatus, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPlayer inserts or refreshes a player keyed by external id
func (r *Repository) UpsertPlayer(ctx context.Context, req UpsertPlayerRequest) (*models.Player, error) {
	q := `
		INSERT INTO players (id, external_id, full_name, nhl_team, position, injury_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    nhl_team = EXCLUDED.nhl_team,
		    position = EXCLUDED.position,
		    injury_status = EXCLUDED.injury_status
		RETURNING ` + playerColumns

	p, err := scanPlayer(r.db.QueryRowContext(ctx, q,
		uuid.New(), req.ExternalID, req.FullName, req.NHLTeam, req.Position, req.InjuryStatus))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}
	return p, nil
}

// GetPlayer retrieves a player by ID
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	q := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetPlayersByIDs retrieves a batch of players
func (r *Repository) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	q := `SELECT ` + playerColumns + ` FROM players WHERE id = ANY($1)`
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	rows, err := r.db.QueryContext(ctx, q, pq.Array(strs))
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// UpdateInjuryStatus sets a player's injury designation
func (r *Repository) UpdateInjuryStatus(ctx context.Context, id uuid.UUID, status models.InjuryStatus) (*models.Player, error) {
	q := `UPDATE players SET injury_status = $2 WHERE id = $1 RETURNING ` + playerColumns
	p, err := scanPlayer(r.db.QueryRowContext(ctx, q, id, status))
	if err != nil {
		return nil, fmt.Errorf("failed to update injury status: %w", err)
	}
	return p, nil
}
