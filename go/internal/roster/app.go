package roster

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/models"
)

// RosterRepository defines what the app layer needs from the repository
type RosterRepository interface {
	CurrentRoster(ctx context.Context, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error)
	OwnerOf(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error)
	RosterCount(ctx context.Context, leagueID, teamID uuid.UUID) (int, error)
}

// Guard defines what the app needs from the membership guard
type Guard interface {
	Authorize(ctx context.Context, actorID, leagueID uuid.UUID, required membership.Role) error
}

// App exposes read access to the roster ledger. The ledger is the single
// source of truth for ownership: nothing here caches results, and derived
// views (lineup projections) are rebuilt from these reads. Reads are
// membership-gated the same as writes: outsiders get an authorization error,
// never an empty roster.
type App struct {
	repo  RosterRepository
	guard Guard
}

// NewApp creates a new roster App
func NewApp(repo RosterRepository, guard Guard) *App {
	return &App{repo: repo, guard: guard}
}

// CurrentRoster returns the team's current roster entries
func (a *App) CurrentRoster(ctx context.Context, actorID, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error) {
	if err := a.guard.Authorize(ctx, actorID, leagueID, membership.RoleMember); err != nil {
		return nil, err
	}

	entries, err := a.repo.CurrentRoster(ctx, leagueID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current roster: %w", err)
	}
	return entries, nil
}

// OwnerOf returns the owning team for a player, nil for free agents
func (a *App) OwnerOf(ctx context.Context, actorID, leagueID, playerID uuid.UUID) (*uuid.UUID, error) {
	if err := a.guard.Authorize(ctx, actorID, leagueID, membership.RoleMember); err != nil {
		return nil, err
	}

	teamID, err := a.repo.OwnerOf(ctx, leagueID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}
	return teamID, nil
}
