package lineup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/models"
)

type projKey struct {
	team uuid.UUID
	date string
}

type fakeLineupStore struct {
	prefs       map[uuid.UUID]map[uuid.UUID]models.SlotID
	projections map[projKey]*models.LineupProjection
	staleKeys   map[projKey]bool
	snapshots   []models.DailyRosterSnapshot
	saves       int
}

func newFakeLineupStore() *fakeLineupStore {
	return &fakeLineupStore{
		prefs:       make(map[uuid.UUID]map[uuid.UUID]models.SlotID),
		projections: make(map[projKey]*models.LineupProjection),
		staleKeys:   make(map[projKey]bool),
	}
}

func (f *fakeLineupStore) SlotPreferences(_ context.Context, teamID uuid.UUID) (map[uuid.UUID]models.SlotID, error) {
	out := make(map[uuid.UUID]models.SlotID)
	for p, s := range f.prefs[teamID] {
		out[p] = s
	}
	return out, nil
}

func (f *fakeLineupStore) SetSlotPreference(_ context.Context, teamID, playerID uuid.UUID, slot models.SlotID) error {
	if f.prefs[teamID] == nil {
		f.prefs[teamID] = make(map[uuid.UUID]models.SlotID)
	}
	f.prefs[teamID][playerID] = slot
	return nil
}

func (f *fakeLineupStore) DeleteSlotPreference(_ context.Context, teamID, playerID uuid.UUID) error {
	delete(f.prefs[teamID], playerID)
	return nil
}

func (f *fakeLineupStore) GetProjection(_ context.Context, teamID uuid.UUID, date string) (*models.LineupProjection, bool, error) {
	k := projKey{teamID, date}
	proj, ok := f.projections[k]
	if !ok {
		return nil, true, nil
	}
	return proj, f.staleKeys[k], nil
}

func (f *fakeLineupStore) SaveProjection(_ context.Context, proj *models.LineupProjection) error {
	k := projKey{proj.FantasyTeamID, proj.Date}
	cp := *proj
	f.projections[k] = &cp
	f.staleKeys[k] = false
	f.saves++
	return nil
}

func (f *fakeLineupStore) MarkStale(_ context.Context, teamID uuid.UUID, date string) error {
	f.staleKeys[projKey{teamID, date}] = true
	return nil
}

func (f *fakeLineupStore) IsDateLocked(_ context.Context, teamID uuid.UUID, date string) (bool, error) {
	for _, s := range f.snapshots {
		if s.FantasyTeamID == teamID && s.Date == date && s.Locked {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLineupStore) LockedSnapshotForDate(_ context.Context, teamID uuid.UUID, date string) (*models.DailyRosterSnapshot, error) {
	for i, s := range f.snapshots {
		if s.FantasyTeamID == teamID && s.Date == date && s.Locked {
			return &f.snapshots[i], nil
		}
	}
	return nil, nil
}

func (f *fakeLineupStore) GetSnapshot(_ context.Context, teamID, matchupID uuid.UUID, date string) (*models.DailyRosterSnapshot, error) {
	for i, s := range f.snapshots {
		if s.FantasyTeamID == teamID && s.MatchupID == matchupID && s.Date == date {
			return &f.snapshots[i], nil
		}
	}
	return nil, nil
}

func (f *fakeLineupStore) InsertSnapshot(_ context.Context, s *models.DailyRosterSnapshot) (bool, error) {
	for _, existing := range f.snapshots {
		if existing.FantasyTeamID == s.FantasyTeamID && existing.MatchupID == s.MatchupID && existing.Date == s.Date {
			return false, nil
		}
	}
	f.snapshots = append(f.snapshots, *s)
	return true, nil
}

type fakeRoster struct {
	entries []models.RosterEntry
}

func (f *fakeRoster) CurrentRoster(_ context.Context, _, teamID uuid.UUID) ([]models.RosterEntry, error) {
	var out []models.RosterEntry
	for _, e := range f.entries {
		if e.FantasyTeamID == teamID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRoster) OwnerOf(_ context.Context, _, playerID uuid.UUID) (*uuid.UUID, error) {
	for _, e := range f.entries {
		if e.PlayerID == playerID {
			team := e.FantasyTeamID
			return &team, nil
		}
	}
	return nil, nil
}

type fakePlayers struct {
	players map[uuid.UUID]models.Player
}

func (f *fakePlayers) GetPlayersByIDs(_ context.Context, ids []uuid.UUID) ([]models.Player, error) {
	var out []models.Player
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLeagues struct{ league models.League }

func (f *fakeLeagues) GetLeague(_ context.Context, _ uuid.UUID) (*models.League, error) {
	l := f.league
	return &l, nil
}

type allowGuard struct{}

func (allowGuard) Authorize(_ context.Context, actor, _ uuid.UUID, _ membership.Role) error {
	if actor == uuid.Nil {
		return membership.ErrNotAMember
	}
	return nil
}

func (allowGuard) AuthorizeTeamActor(_ context.Context, actor, _, _ uuid.UUID) error {
	if actor == uuid.Nil {
		return membership.ErrNotAMember
	}
	return nil
}

type fixture struct {
	app     *App
	store   *fakeLineupStore
	roster  *fakeRoster
	players *fakePlayers
	league  uuid.UUID
	team    uuid.UUID
	clock   *clockwork.FakeClock
}

func newFixture() *fixture {
	store := newFakeLineupStore()
	roster := &fakeRoster{}
	players := &fakePlayers{players: make(map[uuid.UUID]models.Player)}
	league := models.League{
		ID: uuid.New(),
		Settings: models.LeagueSettings{
			RosterCap:  10,
			SlotCounts: map[string]int{"C": 1, "G": 1},
			BenchSize:  4,
			IRSlots:    1,
		},
	}
	clock := clockwork.NewFakeClock()
	return &fixture{
		app:     NewApp(store, roster, players, &fakeLeagues{league}, allowGuard{}, clock),
		store:   store,
		roster:  roster,
		players: players,
		league:  league.ID,
		team:    uuid.New(),
		clock:   clock,
	}
}

func (f *fixture) addPlayer(pos models.Position, status models.InjuryStatus) uuid.UUID {
	id := uuid.New()
	f.players.players[id] = models.Player{ID: id, Position: pos, InjuryStatus: status}
	f.roster.entries = append(f.roster.entries, models.RosterEntry{
		ID: uuid.New(), LeagueID: f.league, FantasyTeamID: f.team, PlayerID: id,
	})
	return id
}

func TestProjectionRecomputesWhenStale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	center := f.addPlayer(models.PositionCenter, models.InjuryStatusHealthy)
	actor := uuid.New()

	if err := f.app.SetSlotPreference(ctx, actor, f.league, f.team, center, "C1"); err != nil {
		t.Fatalf("set preference failed: %v", err)
	}

	proj, err := f.app.Projection(ctx, actor, f.league, f.team, "")
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if proj.Starters["C1"] != center {
		t.Fatalf("starters = %v", proj.Starters)
	}
	saves := f.store.saves

	// A fresh read of a clean projection does not recompute
	if _, err := f.app.Projection(ctx, actor, f.league, f.team, ""); err != nil {
		t.Fatalf("second projection failed: %v", err)
	}
	if f.store.saves != saves {
		t.Fatal("clean projection was recomputed")
	}

	// Going stale forces a rebuild on the next read
	today := f.clock.Now().UTC().Format(dateLayout)
	if err := f.store.MarkStale(ctx, f.team, today); err != nil {
		t.Fatal(err)
	}
	if _, err := f.app.Projection(ctx, actor, f.league, f.team, ""); err != nil {
		t.Fatalf("stale projection read failed: %v", err)
	}
	if f.store.saves != saves+1 {
		t.Fatal("stale projection was not recomputed")
	}
}

func TestProjectionLockedDateServedFromSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	center := f.addPlayer(models.PositionCenter, models.InjuryStatusHealthy)
	actor := uuid.New()
	matchup := uuid.New()
	date := "2026-01-15"

	if err := f.app.SetSlotPreference(ctx, actor, f.league, f.team, center, "C1"); err != nil {
		t.Fatal(err)
	}
	snapshot, err := f.app.LockDailySnapshot(ctx, f.league, f.team, matchup, date)
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if !snapshot.Locked {
		t.Fatal("snapshot not locked")
	}

	// Roster changes after the lock must not leak into the locked date
	f.addPlayer(models.PositionGoalie, models.InjuryStatusHealthy)

	proj, err := f.app.Projection(ctx, actor, f.league, f.team, date)
	if err != nil {
		t.Fatalf("projection of locked date failed: %v", err)
	}
	var frozen models.LineupProjection
	if err := json.Unmarshal(snapshot.Lineup, &frozen); err != nil {
		t.Fatal(err)
	}
	if len(proj.Starters)+len(proj.Bench) != len(frozen.Starters)+len(frozen.Bench) {
		t.Fatal("locked date reflects post-lock roster changes")
	}

	// Explicit recompute of a locked date is refused
	if _, err := f.app.Recompute(ctx, f.league, f.team, date); !errors.Is(err, ErrDateLocked) {
		t.Fatalf("recompute of locked date = %v, want ErrDateLocked", err)
	}
}

func TestLockDailySnapshotIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addPlayer(models.PositionCenter, models.InjuryStatusHealthy)
	matchup := uuid.New()
	date := "2026-01-15"

	first, err := f.app.LockDailySnapshot(ctx, f.league, f.team, matchup, date)
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}

	f.addPlayer(models.PositionGoalie, models.InjuryStatusHealthy)

	second, err := f.app.LockDailySnapshot(ctx, f.league, f.team, matchup, date)
	if err != nil {
		t.Fatalf("second lock failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("second lock replaced the snapshot")
	}
	if len(f.store.snapshots) != 1 {
		t.Fatalf("store holds %d snapshots, want 1", len(f.store.snapshots))
	}
}

func TestSetSlotPreferenceValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	center := f.addPlayer(models.PositionCenter, models.InjuryStatusHealthy)
	actor := uuid.New()

	if err := f.app.SetSlotPreference(ctx, actor, f.league, f.team, uuid.New(), "C1"); !errors.Is(err, ErrPlayerNotRostered) {
		t.Fatalf("preference for free agent = %v, want ErrPlayerNotRostered", err)
	}
	if err := f.app.SetSlotPreference(ctx, actor, f.league, f.team, center, "LW1"); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("preference for unconfigured slot = %v, want ErrUnknownSlot", err)
	}
	if err := f.app.SetSlotPreference(ctx, uuid.Nil, f.league, f.team, center, "C1"); !errors.Is(err, membership.ErrNotAMember) {
		t.Fatalf("anonymous preference = %v, want ErrNotAMember", err)
	}

	// Once today is locked, preferences are frozen too
	if _, err := f.app.LockDailySnapshot(ctx, f.league, f.team, uuid.New(), f.clock.Now().UTC().Format(dateLayout)); err != nil {
		t.Fatal(err)
	}
	if err := f.app.SetSlotPreference(ctx, actor, f.league, f.team, center, "C1"); !errors.Is(err, ErrDateLocked) {
		t.Fatalf("preference on locked date = %v, want ErrDateLocked", err)
	}
}
