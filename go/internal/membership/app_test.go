package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeGuardRepo struct {
	commissioner uuid.UUID
	leagueID     uuid.UUID
	teamOwners   map[uuid.UUID]*uuid.UUID // teamID -> owner
	teamLeagues  map[uuid.UUID]uuid.UUID  // teamID -> league, defaults to leagueID
	memberOwners map[uuid.UUID]bool       // actorID -> owns a team in league
}

func (f *fakeGuardRepo) IsCommissioner(_ context.Context, actorID, leagueID uuid.UUID) (bool, error) {
	return leagueID == f.leagueID && actorID == f.commissioner, nil
}

func (f *fakeGuardRepo) OwnsTeamInLeague(_ context.Context, actorID, leagueID uuid.UUID) (bool, error) {
	if leagueID != f.leagueID {
		return false, nil
	}
	return f.memberOwners[actorID], nil
}

func (f *fakeGuardRepo) TeamOwner(_ context.Context, teamID uuid.UUID) (*uuid.UUID, uuid.UUID, error) {
	owner, ok := f.teamOwners[teamID]
	if !ok {
		return nil, uuid.Nil, errors.New("team not found")
	}
	league, ok := f.teamLeagues[teamID]
	if !ok {
		league = f.leagueID
	}
	return owner, league, nil
}

func TestAuthorize(t *testing.T) {
	leagueID := uuid.New()
	commish := uuid.New()
	member := uuid.New()
	outsider := uuid.New()

	repo := &fakeGuardRepo{
		commissioner: commish,
		leagueID:     leagueID,
		memberOwners: map[uuid.UUID]bool{member: true},
	}
	guard := NewGuard(repo)

	tests := []struct {
		name    string
		actor   uuid.UUID
		role    Role
		wantErr error
	}{
		{"commissioner as member", commish, RoleMember, nil},
		{"commissioner as commissioner", commish, RoleCommissioner, nil},
		{"member as member", member, RoleMember, nil},
		{"member as commissioner", member, RoleCommissioner, ErrNotAMember},
		{"outsider", outsider, RoleMember, ErrNotAMember},
		{"nil actor fails closed", uuid.Nil, RoleMember, ErrNotAMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Authorize(context.Background(), tt.actor, leagueID, tt.role)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authorize() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeTeamActor(t *testing.T) {
	leagueID := uuid.New()
	commish := uuid.New()
	owner := uuid.New()
	rival := uuid.New()
	teamID := uuid.New()
	unclaimedTeam := uuid.New()

	repo := &fakeGuardRepo{
		commissioner: commish,
		leagueID:     leagueID,
		memberOwners: map[uuid.UUID]bool{owner: true, rival: true},
		teamOwners: map[uuid.UUID]*uuid.UUID{
			teamID:        &owner,
			unclaimedTeam: nil,
		},
	}
	guard := NewGuard(repo)
	ctx := context.Background()

	if err := guard.AuthorizeTeamActor(ctx, owner, leagueID, teamID); err != nil {
		t.Errorf("owner should act for own team, got %v", err)
	}
	if err := guard.AuthorizeTeamActor(ctx, commish, leagueID, teamID); err != nil {
		t.Errorf("commissioner should act for any team, got %v", err)
	}
	if err := guard.AuthorizeTeamActor(ctx, rival, leagueID, teamID); !errors.Is(err, ErrNotAMember) {
		t.Errorf("rival acting for another team = %v, want ErrNotAMember", err)
	}
	if err := guard.AuthorizeTeamActor(ctx, owner, leagueID, unclaimedTeam); !errors.Is(err, ErrNotAMember) {
		t.Errorf("acting for unclaimed team = %v, want ErrNotAMember", err)
	}
	if err := guard.AuthorizeTeamActor(ctx, uuid.Nil, leagueID, teamID); !errors.Is(err, ErrNotAMember) {
		t.Errorf("nil actor = %v, want ErrNotAMember", err)
	}
}

func TestAuthorizeTeamActorRejectsForeignLeague(t *testing.T) {
	leagueID := uuid.New()
	otherLeague := uuid.New()
	commish := uuid.New()
	owner := uuid.New()
	teamID := uuid.New()
	foreignTeam := uuid.New()

	repo := &fakeGuardRepo{
		commissioner: commish,
		leagueID:     leagueID,
		memberOwners: map[uuid.UUID]bool{owner: true},
		teamOwners: map[uuid.UUID]*uuid.UUID{
			teamID:      &owner,
			foreignTeam: &owner,
		},
		teamLeagues: map[uuid.UUID]uuid.UUID{
			teamID:      leagueID,
			foreignTeam: otherLeague,
		},
	}
	guard := NewGuard(repo)
	ctx := context.Background()

	// Owning a team elsewhere grants nothing here
	if err := guard.AuthorizeTeamActor(ctx, owner, leagueID, foreignTeam); !errors.Is(err, ErrNotAMember) {
		t.Errorf("own team from another league = %v, want ErrNotAMember", err)
	}
	// Naming the team's real league does not help either when the caller
	// addressed a different one
	if err := guard.AuthorizeTeamActor(ctx, owner, otherLeague, teamID); !errors.Is(err, ErrNotAMember) {
		t.Errorf("team addressed through the wrong league = %v, want ErrNotAMember", err)
	}
	// The commissioner's reach stops at the league boundary too
	if err := guard.AuthorizeTeamActor(ctx, commish, leagueID, foreignTeam); !errors.Is(err, ErrNotAMember) {
		t.Errorf("commissioner reaching into another league = %v, want ErrNotAMember", err)
	}

	if err := guard.AuthorizeTeamActor(ctx, owner, leagueID, teamID); err != nil {
		t.Errorf("owner in the right league should pass, got %v", err)
	}
}
