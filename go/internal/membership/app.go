package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Role is the access level a guarded operation requires
type Role string

const (
	RoleMember       Role = "MEMBER"
	RoleCommissioner Role = "COMMISSIONER"
)

// GuardRepository defines what the guard needs from the repository
type GuardRepository interface {
	IsCommissioner(ctx context.Context, actorID, leagueID uuid.UUID) (bool, error)
	OwnsTeamInLeague(ctx context.Context, actorID, leagueID uuid.UUID) (bool, error)
	TeamOwner(ctx context.Context, teamID uuid.UUID) (*uuid.UUID, uuid.UUID, error)
}

// Guard is the server-side membership check in front of every league-scoped
// read and write. It is stateless: each call re-resolves the actor's role
// from current rows, so a role is never carried over from an earlier
// request. Role is always recomputed from leagues.commissioner_id here;
// client-supplied role state is never consulted.
type Guard struct {
	repo GuardRepository
}

func NewGuard(repo GuardRepository) *Guard {
	return &Guard{repo: repo}
}

// Authorize succeeds if actorID is the league commissioner or, for
// RoleMember, owns a team in the league. A nil actor fails closed with
// ErrNotAMember before any query runs.
func (g *Guard) Authorize(ctx context.Context, actorID, leagueID uuid.UUID, required Role) error {
	if actorID == uuid.Nil {
		return ErrNotAMember
	}

	isCommish, err := g.repo.IsCommissioner(ctx, actorID, leagueID)
	if err != nil {
		return fmt.Errorf("failed to resolve commissioner role: %w", err)
	}
	if isCommish {
		return nil
	}
	if required == RoleCommissioner {
		return ErrNotAMember
	}

	ownsTeam, err := g.repo.OwnsTeamInLeague(ctx, actorID, leagueID)
	if err != nil {
		return fmt.Errorf("failed to resolve member role: %w", err)
	}
	if !ownsTeam {
		return ErrNotAMember
	}
	return nil
}

// AuthorizeTeamActor checks that actorID acts for teamID within leagueID:
// the team must belong to the league and the actor must own it. The
// commissioner may act for any team in the league. A team from some other
// league is denied no matter who asks, so a membership in one league never
// opens a door into another.
func (g *Guard) AuthorizeTeamActor(ctx context.Context, actorID, leagueID, teamID uuid.UUID) error {
	if actorID == uuid.Nil {
		return ErrNotAMember
	}

	owner, teamLeague, err := g.repo.TeamOwner(ctx, teamID)
	if err != nil {
		return ErrNotAMember
	}
	if teamLeague != leagueID {
		return ErrNotAMember
	}

	isCommish, err := g.repo.IsCommissioner(ctx, actorID, leagueID)
	if err != nil {
		return fmt.Errorf("failed to resolve commissioner role: %w", err)
	}
	if isCommish {
		return nil
	}

	if owner == nil || *owner != actorID {
		return ErrNotAMember
	}
	return nil
}
