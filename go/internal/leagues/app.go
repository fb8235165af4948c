package leagues

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/rs/zerolog/log"
)

// LeaguesRepository defines what the app layer needs from the repository
type LeaguesRepository interface {
	CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error)
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	GetLeaguesByCommissioner(ctx context.Context, commissionerID uuid.UUID) ([]models.League, error)
	UpdateLeague(ctx context.Context, id uuid.UUID, req UpdateLeagueRequest) (*models.League, error)
	UpdateLeagueSettings(ctx context.Context, id uuid.UUID, settings models.LeagueSettings) (*models.League, error)
	DeleteLeague(ctx context.Context, id uuid.UUID) error
}

// UsersRepository defines what the app layer needs from the users repository
type UsersRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// App handles leagues business logic
type App struct {
	repo      LeaguesRepository
	usersRepo UsersRepository
}

// NewApp creates a new leagues App
func NewApp(repo LeaguesRepository, usersRepo UsersRepository) *App {
	return &App{repo: repo, usersRepo: usersRepo}
}

// CreateLeague creates a new league with validation
func (a *App) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	if err := a.validateLeagueRequest(req.Name, req.Season, req.Status, req.Settings); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.CommissionerID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: commissioner_id is required")
	}

	// Verify commissioner exists
	if _, err := a.usersRepo.GetUser(ctx, req.CommissionerID); err != nil {
		return nil, fmt.Errorf("commissioner not found: %w", err)
	}

	league, err := a.repo.CreateLeague(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	log.Info().
		Str("league", league.Name).
		Str("season", league.Season).
		Msg("created league")
	return league, nil
}

// GetLeague retrieves a league by ID
func (a *App) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	league, err := a.repo.GetLeague(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return league, nil
}

// GetLeaguesByCommissioner retrieves leagues by commissioner ID
func (a *App) GetLeaguesByCommissioner(ctx context.Context, commissionerID uuid.UUID) ([]models.League, error) {
	leagues, err := a.repo.GetLeaguesByCommissioner(ctx, commissionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leagues by commissioner: %w", err)
	}
	return leagues, nil
}

// UpdateLeague updates an existing league with validation
func (a *App) UpdateLeague(ctx context.Context, id uuid.UUID, req UpdateLeagueRequest) (*models.League, error) {
	if err := a.validateLeagueRequest(req.Name, req.Season, req.Status, req.Settings); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := a.repo.GetLeague(ctx, id); err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	league, err := a.repo.UpdateLeague(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update league: %w", err)
	}
	return league, nil
}

// UpdateLeagueSettings updates only the settings of a league
func (a *App) UpdateLeagueSettings(ctx context.Context, id uuid.UUID, settings models.LeagueSettings) (*models.League, error) {
	if err := validateSettings(settings); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := a.repo.GetLeague(ctx, id); err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	league, err := a.repo.UpdateLeagueSettings(ctx, id, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to update league settings: %w", err)
	}
	return league, nil
}

// DeleteLeague deletes a league by ID
func (a *App) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	league, err := a.repo.GetLeague(ctx, id)
	if err != nil {
		return fmt.Errorf("league not found: %w", err)
	}

	if err := a.repo.DeleteLeague(ctx, id); err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}

	log.Info().Str("league", league.Name).Msg("deleted league")
	return nil
}

func (a *App) validateLeagueRequest(name, season string, status models.LeagueStatus, settings models.LeagueSettings) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if season == "" {
		return fmt.Errorf("season is required")
	}
	switch status {
	case models.LeagueStatusPending, models.LeagueStatusActive, models.LeagueStatusCompleted, models.LeagueStatusCancelled:
	default:
		return fmt.Errorf("invalid league status: %s", status)
	}
	return validateSettings(settings)
}

func validateSettings(s models.LeagueSettings) error {
	if s.RosterCap <= 0 {
		return fmt.Errorf("roster_cap must be positive")
	}
	if len(s.SlotCounts) == 0 {
		return fmt.Errorf("slot_counts is required")
	}
	starters := 0
	for pos, n := range s.SlotCounts {
		if n < 0 {
			return fmt.Errorf("slot count for %s cannot be negative", pos)
		}
		starters += n
	}
	if starters+s.BenchSize > s.RosterCap {
		return fmt.Errorf("starters plus bench exceed roster cap")
	}
	switch s.WaiverPolicy {
	case models.WaiverPolicyRolling, models.WaiverPolicyReverseStandings:
	default:
		return fmt.Errorf("invalid waiver policy: %s", s.WaiverPolicy)
	}
	return nil
}
