package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/models"
)

type fakeRepo struct {
	entries []models.RosterEntry
}

func (f *fakeRepo) CurrentRoster(_ context.Context, _, teamID uuid.UUID) ([]models.RosterEntry, error) {
	var out []models.RosterEntry
	for _, e := range f.entries {
		if e.FantasyTeamID == teamID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) OwnerOf(_ context.Context, _, playerID uuid.UUID) (*uuid.UUID, error) {
	for _, e := range f.entries {
		if e.PlayerID == playerID {
			team := e.FantasyTeamID
			return &team, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) RosterCount(_ context.Context, _, teamID uuid.UUID) (int, error) {
	entries, _ := f.CurrentRoster(context.Background(), uuid.Nil, teamID)
	return len(entries), nil
}

type memberGuard struct {
	members map[uuid.UUID]bool
}

func (g memberGuard) Authorize(_ context.Context, actorID, _ uuid.UUID, _ membership.Role) error {
	if !g.members[actorID] {
		return membership.ErrNotAMember
	}
	return nil
}

func TestCurrentRosterRequiresMembership(t *testing.T) {
	league, team := uuid.New(), uuid.New()
	member, outsider := uuid.New(), uuid.New()

	repo := &fakeRepo{entries: []models.RosterEntry{
		{ID: uuid.New(), LeagueID: league, FantasyTeamID: team, PlayerID: uuid.New()},
	}}
	app := NewApp(repo, memberGuard{members: map[uuid.UUID]bool{member: true}})

	entries, err := app.CurrentRoster(context.Background(), member, league, team)
	if err != nil {
		t.Fatalf("member read failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	// Outsiders get an error, never an empty roster
	if _, err := app.CurrentRoster(context.Background(), outsider, league, team); !errors.Is(err, membership.ErrNotAMember) {
		t.Fatalf("outsider read = %v, want ErrNotAMember", err)
	}
	if _, err := app.CurrentRoster(context.Background(), uuid.Nil, league, team); !errors.Is(err, membership.ErrNotAMember) {
		t.Fatalf("anonymous read = %v, want ErrNotAMember", err)
	}
}

func TestOwnerOfFreeAgent(t *testing.T) {
	member := uuid.New()
	app := NewApp(&fakeRepo{}, memberGuard{members: map[uuid.UUID]bool{member: true}})

	owner, err := app.OwnerOf(context.Background(), member, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != nil {
		t.Fatalf("free agent has owner %v", owner)
	}
}
