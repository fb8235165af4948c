package fantasyteam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/rs/zerolog/log"
)

// FantasyTeamRepository defines what the app layer needs from the repository
type FantasyTeamRepository interface {
	CreateFantasyTeam(ctx context.Context, req CreateFantasyTeamRequest) (*models.FantasyTeam, error)
	GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
	GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
	GetFantasyTeamByLeagueAndOwner(ctx context.Context, leagueID, ownerID uuid.UUID) (*models.FantasyTeam, error)
	UpdateFantasyTeam(ctx context.Context, id uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error)
	ClaimFantasyTeam(ctx context.Context, id, ownerID uuid.UUID) (*models.FantasyTeam, error)
	DeleteFantasyTeam(ctx context.Context, id uuid.UUID) error
}

// UsersRepository defines what the app layer needs from the users repository for validation
type UsersRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LeaguesRepository defines what the app layer needs from the leagues repository for validation
type LeaguesRepository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

// App handles fantasy teams business logic
type App struct {
	repo        FantasyTeamRepository
	usersRepo   UsersRepository
	leaguesRepo LeaguesRepository
}

// NewApp creates a new fantasy teams App
func NewApp(repo FantasyTeamRepository, usersRepo UsersRepository, leaguesRepo LeaguesRepository) *App {
	return &App{
		repo:        repo,
		usersRepo:   usersRepo,
		leaguesRepo: leaguesRepo,
	}
}

// CreateFantasyTeam creates a new fantasy team with validation
func (a *App) CreateFantasyTeam(ctx context.Context, req CreateFantasyTeamRequest) (*models.FantasyTeam, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("validation failed: name is required")
	}
	if req.LeagueID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: league_id is required")
	}

	// Verify league exists
	if _, err := a.leaguesRepo.GetLeague(ctx, req.LeagueID); err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	// Owner is optional: unclaimed/demo teams carry none
	if req.OwnerID != nil {
		if _, err := a.usersRepo.GetUser(ctx, *req.OwnerID); err != nil {
			return nil, fmt.Errorf("owner not found: %w", err)
		}
	}

	team, err := a.repo.CreateFantasyTeam(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create fantasy team: %w", err)
	}

	log.Info().
		Str("team", team.Name).
		Str("league_id", team.LeagueID.String()).
		Msg("created fantasy team")
	return team, nil
}

// GetFantasyTeam retrieves a fantasy team by ID
func (a *App) GetFantasyTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	team, err := a.repo.GetFantasyTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy team: %w", err)
	}
	return team, nil
}

// GetFantasyTeamsByLeague retrieves all fantasy teams in a league
func (a *App) GetFantasyTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	teams, err := a.repo.GetFantasyTeamsByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy teams: %w", err)
	}
	return teams, nil
}

// UpdateFantasyTeam updates an existing fantasy team
func (a *App) UpdateFantasyTeam(ctx context.Context, id uuid.UUID, req UpdateFantasyTeamRequest) (*models.FantasyTeam, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("validation failed: name cannot be empty")
	}

	if _, err := a.repo.GetFantasyTeam(ctx, id); err != nil {
		return nil, fmt.Errorf("fantasy team not found: %w", err)
	}

	team, err := a.repo.UpdateFantasyTeam(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update fantasy team: %w", err)
	}
	return team, nil
}

// ClaimFantasyTeam assigns an owner to an unclaimed team
func (a *App) ClaimFantasyTeam(ctx context.Context, id, ownerID uuid.UUID) (*models.FantasyTeam, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: owner_id is required")
	}
	if _, err := a.usersRepo.GetUser(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("owner not found: %w", err)
	}

	team, err := a.repo.ClaimFantasyTeam(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim fantasy team: %w", err)
	}

	log.Info().
		Str("team", team.Name).
		Str("owner_id", ownerID.String()).
		Msg("fantasy team claimed")
	return team, nil
}

// DeleteFantasyTeam deletes a fantasy team by ID
func (a *App) DeleteFantasyTeam(ctx context.Context, id uuid.UUID) error {
	if _, err := a.repo.GetFantasyTeam(ctx, id); err != nil {
		return fmt.Errorf("fantasy team not found: %w", err)
	}
	if err := a.repo.DeleteFantasyTeam(ctx, id); err != nil {
		return fmt.Errorf("failed to delete fantasy team: %w", err)
	}
	return nil
}
