package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/rs/zerolog/log"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	UpsertPlayer(ctx context.Context, req UpsertPlayerRequest) (*models.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
	UpdateInjuryStatus(ctx context.Context, id uuid.UUID, status models.InjuryStatus) (*models.Player, error)
}

// App handles player business logic
type App struct {
	repo PlayerRepository
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository) *App {
	return &App{repo: repo}
}

// UpsertPlayer imports or refreshes one player record, normalizing upstream
// identifiers and position codes at the boundary
func (a *App) UpsertPlayer(ctx context.Context, req UpsertPlayerRequest) (*models.Player, error) {
	req.ExternalID = strings.TrimSpace(req.ExternalID)
	if req.ExternalID == "" {
		return nil, fmt.Errorf("external_id is required")
	}
	if req.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}

	pos, err := NormalizePosition(string(req.Position))
	if err != nil {
		return nil, err
	}
	req.Position = pos

	if req.InjuryStatus == "" {
		req.InjuryStatus = models.InjuryStatusHealthy
	}

	p, err := a.repo.UpsertPlayer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}
	return p, nil
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetPlayersByIDs retrieves a batch of players
func (a *App) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	players, err := a.repo.GetPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	return players, nil
}

// UpdateInjuryStatus sets a player's injury designation from an external feed
func (a *App) UpdateInjuryStatus(ctx context.Context, id uuid.UUID, status models.InjuryStatus) (*models.Player, error) {
	switch status {
	case models.InjuryStatusHealthy, models.InjuryStatusDayToDay, models.InjuryStatusInjured,
		models.InjuryStatusLongTerm, models.InjuryStatusSuspension:
	default:
		return nil, fmt.Errorf("invalid injury status: %s", status)
	}

	p, err := a.repo.UpdateInjuryStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update injury status: %w", err)
	}

	log.Info().
		Str("player", p.FullName).
		Str("status", string(status)).
		Msg("updated injury status")
	return p, nil
}

// NormalizePosition maps upstream position codes onto the canonical set
func NormalizePosition(code string) (models.Position, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "C":
		return models.PositionCenter, nil
	case "L", "LW":
		return models.PositionLeftWing, nil
	case "R", "RW":
		return models.PositionRightWing, nil
	case "D":
		return models.PositionDefense, nil
	case "G":
		return models.PositionGoalie, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, code)
}
