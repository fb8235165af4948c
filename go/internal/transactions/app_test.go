package transactions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/models"
)

type ownershipKey struct {
	league uuid.UUID
	player uuid.UUID
}

// fakeStore is an in-memory Store that enforces the same (league, player)
// uniqueness the database constraint does, and rolls state back when an
// Atomic body fails.
type fakeStore struct {
	mu         sync.Mutex
	roster     map[ownershipKey]uuid.UUID
	ledger     []models.TransactionLedgerEntry
	outbox     []string
	stale      map[uuid.UUID]int
	waivers    map[ownershipKey]time.Time // player -> clears_at
	claims     map[ownershipKey]map[uuid.UUID]bool
	priorities map[uuid.UUID]map[uuid.UUID]int // league -> team -> priority
	drafted    []DraftResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roster:     make(map[ownershipKey]uuid.UUID),
		stale:      make(map[uuid.UUID]int),
		waivers:    make(map[ownershipKey]time.Time),
		claims:     make(map[ownershipKey]map[uuid.UUID]bool),
		priorities: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

func (f *fakeStore) snapshot() map[ownershipKey]uuid.UUID {
	cp := make(map[ownershipKey]uuid.UUID, len(f.roster))
	for k, v := range f.roster {
		cp[k] = v
	}
	return cp
}

func (f *fakeStore) Atomic(_ context.Context, fn func(Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rosterBefore := f.snapshot()
	ledgerBefore := len(f.ledger)
	outboxBefore := len(f.outbox)
	if err := fn(f); err != nil {
		f.roster = rosterBefore
		f.ledger = f.ledger[:ledgerBefore]
		f.outbox = f.outbox[:outboxBefore]
		return err
	}
	return nil
}

func (f *fakeStore) OwnerOf(_ context.Context, league, player uuid.UUID) (*uuid.UUID, error) {
	if team, ok := f.roster[ownershipKey{league, player}]; ok {
		t := team
		return &t, nil
	}
	return nil, nil
}

func (f *fakeStore) RosterCount(_ context.Context, league, team uuid.UUID) (int, error) {
	n := 0
	for k, v := range f.roster {
		if k.league == league && v == team {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) InsertRosterEntry(_ context.Context, league, team, player uuid.UUID, _ models.AcquisitionType) error {
	k := ownershipKey{league, player}
	if _, taken := f.roster[k]; taken {
		return ErrPlayerNotFree
	}
	f.roster[k] = team
	return nil
}

func (f *fakeStore) InsertRosterEntryIfAbsent(_ context.Context, league, team, player uuid.UUID, _ models.AcquisitionType) (bool, error) {
	k := ownershipKey{league, player}
	if _, taken := f.roster[k]; taken {
		return false, nil
	}
	f.roster[k] = team
	return true, nil
}

func (f *fakeStore) DeleteRosterEntry(_ context.Context, league, team, player uuid.UUID) (bool, error) {
	k := ownershipKey{league, player}
	if owner, ok := f.roster[k]; ok && owner == team {
		delete(f.roster, k)
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) AppendLedgerEntry(_ context.Context, e *models.TransactionLedgerEntry) error {
	f.ledger = append(f.ledger, *e)
	return nil
}

func (f *fakeStore) LedgerEntries(_ context.Context, league uuid.UUID, _ int) ([]models.TransactionLedgerEntry, error) {
	var out []models.TransactionLedgerEntry
	for _, e := range f.ledger {
		if e.LeagueID == league {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertOutboxEvent(_ context.Context, _ uuid.UUID, eventType string, _ []byte) error {
	f.outbox = append(f.outbox, eventType)
	return nil
}

func (f *fakeStore) MarkLineupStale(_ context.Context, team uuid.UUID) error {
	f.stale[team]++
	return nil
}

func (f *fakeStore) WaiverClearsAt(_ context.Context, league, player uuid.UUID) (*time.Time, error) {
	if clearsAt, ok := f.waivers[ownershipKey{league, player}]; ok {
		return &clearsAt, nil
	}
	return nil, nil
}

func (f *fakeStore) PlaceOnWaivers(_ context.Context, league, player uuid.UUID, clearsAt time.Time) error {
	f.waivers[ownershipKey{league, player}] = clearsAt
	return nil
}

func (f *fakeStore) RemoveFromWaivers(_ context.Context, league, player uuid.UUID) error {
	delete(f.waivers, ownershipKey{league, player})
	return nil
}

func (f *fakeStore) ClaimantPriorities(_ context.Context, league, player uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for team := range f.claims[ownershipKey{league, player}] {
		out[team] = f.priorities[league][team]
	}
	return out, nil
}

func (f *fakeStore) FileWaiverClaim(_ context.Context, league, player, team uuid.UUID) error {
	k := ownershipKey{league, player}
	if f.claims[k] == nil {
		f.claims[k] = make(map[uuid.UUID]bool)
	}
	f.claims[k][team] = true
	return nil
}

func (f *fakeStore) DeleteClaims(_ context.Context, league, player uuid.UUID) error {
	delete(f.claims, ownershipKey{league, player})
	return nil
}

func (f *fakeStore) RotatePriorityToBack(_ context.Context, league, team uuid.UUID) error {
	order := f.priorities[league]
	moved := order[team]
	max := 0
	for _, p := range order {
		if p > max {
			max = p
		}
	}
	for t, p := range order {
		if p > moved {
			order[t] = p - 1
		}
	}
	order[team] = max
	return nil
}

func (f *fakeStore) UnsyncedDraftResults(_ context.Context, league uuid.UUID) ([]DraftResult, error) {
	var out []DraftResult
	for _, d := range f.drafted {
		if d.LeagueID != league {
			continue
		}
		if _, taken := f.roster[ownershipKey{league, d.PlayerID}]; !taken {
			out = append(out, d)
		}
	}
	return out, nil
}

// allowAllGuard authorizes everyone except the nil actor
type allowAllGuard struct{}

func (allowAllGuard) Authorize(_ context.Context, actor, _ uuid.UUID, _ membership.Role) error {
	if actor == uuid.Nil {
		return membership.ErrNotAMember
	}
	return nil
}

func (allowAllGuard) AuthorizeTeamActor(_ context.Context, actor, _, _ uuid.UUID) error {
	if actor == uuid.Nil {
		return membership.ErrNotAMember
	}
	return nil
}

type fakeLeagues struct{ league models.League }

func (f fakeLeagues) GetLeague(_ context.Context, _ uuid.UUID) (*models.League, error) {
	l := f.league
	return &l, nil
}

func newTestApp(store Store, cap int, policy models.WaiverPolicy) (*App, *clockwork.FakeClock) {
	league := models.League{
		ID: uuid.New(),
		Settings: models.LeagueSettings{
			RosterCap:    cap,
			SlotCounts:   map[string]int{"C": 1},
			WaiverPolicy: policy,
		},
	}
	clock := clockwork.NewFakeClock()
	return NewApp(store, allowAllGuard{}, fakeLeagues{league}, clock), clock
}

func addMove(player uuid.UUID) Move {
	return Move{Type: models.TransactionTypeAdd, PlayerID: player}
}

func TestApplyMoveAddAndConcurrentClaim(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(store, 20, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	teamA, teamB := uuid.New(), uuid.New()
	player := uuid.New()

	if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamA, ActorID: uuid.New(), Move: addMove(player)}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	owner, _ := store.OwnerOf(ctx, league, player)
	if owner == nil || *owner != teamA {
		t.Fatalf("player should belong to team A")
	}

	// Second claim on the same player loses the race
	_, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamB, ActorID: uuid.New(), Move: addMove(player)})
	if !errors.Is(err, ErrPlayerNotFree) {
		t.Fatalf("second add = %v, want ErrPlayerNotFree", err)
	}

	if len(store.ledger) != 1 {
		t.Fatalf("ledger has %d entries, want 1 (failed move must not append)", len(store.ledger))
	}
	if len(store.outbox) != 1 || store.outbox[0] != "roster.add" {
		t.Fatalf("outbox = %v, want one roster.add", store.outbox)
	}
	if store.stale[teamA] != 1 {
		t.Fatalf("team A projections not marked stale")
	}
}

func TestApplyMoveForgedActorFailsClosed(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(store, 20, models.WaiverPolicyRolling)

	_, err := app.ApplyMove(context.Background(), ApplyMoveRequest{
		LeagueID: uuid.New(), TeamID: uuid.New(), ActorID: uuid.Nil,
		Move: addMove(uuid.New()),
	})
	if !errors.Is(err, membership.ErrNotAMember) {
		t.Fatalf("nil actor = %v, want ErrNotAMember", err)
	}
	if len(store.ledger) != 0 || len(store.roster) != 0 {
		t.Fatal("unauthorized move must leave no trace")
	}
}

func TestApplyMoveDropThenReAdd(t *testing.T) {
	store := newFakeStore()
	app, clock := newTestApp(store, 20, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	teamA, teamB := uuid.New(), uuid.New()
	player := uuid.New()
	store.roster[ownershipKey{league, player}] = teamA

	if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamA, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeDrop, PlayerID: player}}); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	// Dropped player goes to waivers, so a direct add is rejected until he
	// clears; award him to team B through the waiver path instead.
	if err := app.FileWaiverClaim(ctx, league, uuid.New(), teamB, player); err != nil {
		t.Fatal(err)
	}
	store.priorities[league] = map[uuid.UUID]int{teamB: 1, teamA: 2}

	// The award only runs once the period ends
	clock.Advance(waiverPeriod + time.Minute)

	if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamB, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeWaiverAward, PlayerID: player}}); err != nil {
		t.Fatalf("waiver award failed: %v", err)
	}

	// Never in both rosters, never in neither
	owner, _ := store.OwnerOf(ctx, league, player)
	if owner == nil {
		t.Fatal("player vanished from both rosters")
	}
	if *owner != teamB {
		t.Fatalf("player owned by %v, want team B", *owner)
	}
}

func TestApplyMoveDropNotOwned(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(store, 20, models.WaiverPolicyRolling)

	_, err := app.ApplyMove(context.Background(), ApplyMoveRequest{
		LeagueID: uuid.New(), TeamID: uuid.New(), ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeDrop, PlayerID: uuid.New()},
	})
	if !errors.Is(err, ErrPlayerNotOwned) {
		t.Fatalf("drop of unowned player = %v, want ErrPlayerNotOwned", err)
	}
}

func TestApplyMoveRosterFull(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(store, 2, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	team := uuid.New()
	store.roster[ownershipKey{league, uuid.New()}] = team
	store.roster[ownershipKey{league, uuid.New()}] = team

	_, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: team, ActorID: uuid.New(), Move: addMove(uuid.New())})
	if !errors.Is(err, ErrRosterFull) {
		t.Fatalf("add over cap = %v, want ErrRosterFull", err)
	}

	// With a paired drop the add fits
	var existing uuid.UUID
	for k := range store.roster {
		existing = k.player
		break
	}
	newcomer := uuid.New()
	if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: team, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeAdd, PlayerID: newcomer, DropPlayerID: &existing}}); err != nil {
		t.Fatalf("add with paired drop failed: %v", err)
	}
}

func TestApplyMoveTrade(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(store, 20, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	teamA, teamB := uuid.New(), uuid.New()
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	store.roster[ownershipKey{league, p1}] = teamA
	store.roster[ownershipKey{league, p2}] = teamB
	store.roster[ownershipKey{league, p3}] = teamB

	counterparty := teamB
	entry, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamA, ActorID: uuid.New(),
		Move: Move{
			Type:               models.TransactionTypeTrade,
			PlayersOut:         []uuid.UUID{p1},
			PlayersIn:          []uuid.UUID{p2, p3},
			CounterpartyTeamID: &counterparty,
		}})
	if err != nil {
		t.Fatalf("trade failed: %v", err)
	}

	for player, wantTeam := range map[uuid.UUID]uuid.UUID{p1: teamB, p2: teamA, p3: teamA} {
		owner, _ := store.OwnerOf(ctx, league, player)
		if owner == nil || *owner != wantTeam {
			t.Fatalf("player %v owned by %v, want %v", player, owner, wantTeam)
		}
	}

	changes, err := entry.DecodeChanges()
	if err != nil {
		t.Fatalf("failed to decode ledger changes: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("ledger records %d ownership changes, want 3", len(changes))
	}
	if store.stale[teamA] != 1 || store.stale[teamB] != 1 {
		t.Fatal("both sides of a trade must be marked stale")
	}

	// Trading away a player the team does not hold fails and leaves state intact
	_, err = app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamA, ActorID: uuid.New(),
		Move: Move{
			Type:               models.TransactionTypeTrade,
			PlayersOut:         []uuid.UUID{p1}, // now owned by team B
			CounterpartyTeamID: &counterparty,
		}})
	if !errors.Is(err, ErrPlayerNotOwned) {
		t.Fatalf("bad trade = %v, want ErrPlayerNotOwned", err)
	}
}

func TestApplyMoveWaiverPriority(t *testing.T) {
	store := newFakeStore()
	app, clock := newTestApp(store, 20, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	teamA, teamB := uuid.New(), uuid.New()
	player := uuid.New()
	store.waivers[ownershipKey{league, player}] = clock.Now().Add(waiverPeriod)
	store.priorities[league] = map[uuid.UUID]int{teamA: 1, teamB: 2}
	_ = store.FileWaiverClaim(ctx, league, player, teamA)
	_ = store.FileWaiverClaim(ctx, league, player, teamB)

	// Even the priority holder waits out the period
	_, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamA, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeWaiverAward, PlayerID: player}})
	if !errors.Is(err, ErrWaiverPeriodActive) {
		t.Fatalf("early award = %v, want ErrWaiverPeriodActive", err)
	}

	clock.Advance(waiverPeriod + time.Minute)

	// Team B does not hold priority
	_, err = app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamB, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeWaiverAward, PlayerID: player}})
	if !errors.Is(err, ErrStaleWaiverPriority) {
		t.Fatalf("low-priority award = %v, want ErrStaleWaiverPriority", err)
	}

	// Team A does
	if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamA, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeWaiverAward, PlayerID: player}}); err != nil {
		t.Fatalf("priority award failed: %v", err)
	}

	// Rolling policy sends the winner to the back
	if store.priorities[league][teamA] != 2 || store.priorities[league][teamB] != 1 {
		t.Fatalf("priorities after rolling award = %v", store.priorities[league])
	}

	// Player is off waivers now: a second award is stale
	_, err = app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamB, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeWaiverAward, PlayerID: player}})
	if !errors.Is(err, ErrStaleWaiverPriority) {
		t.Fatalf("award of claimed player = %v, want ErrStaleWaiverPriority", err)
	}
}

func TestApplyMoveDirectAddBlockedByWaivers(t *testing.T) {
	store := newFakeStore()
	app, clock := newTestApp(store, 20, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	teamA, teamB := uuid.New(), uuid.New()
	player := uuid.New()
	store.roster[ownershipKey{league, player}] = teamA

	if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamA, ActorID: uuid.New(),
		Move: Move{Type: models.TransactionTypeDrop, PlayerID: player}}); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	// While the period runs, a straight add skips the claim queue and must
	// be refused.
	_, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamB, ActorID: uuid.New(), Move: addMove(player)})
	if !errors.Is(err, ErrPlayerNotFree) {
		t.Fatalf("add of waived player = %v, want ErrPlayerNotFree", err)
	}

	// Nobody claims him; once the period ends he is an ordinary free agent
	clock.Advance(waiverPeriod + time.Minute)
	if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: teamB, ActorID: uuid.New(), Move: addMove(player)}); err != nil {
		t.Fatalf("add after clearing failed: %v", err)
	}

	owner, _ := store.OwnerOf(ctx, league, player)
	if owner == nil || *owner != teamB {
		t.Fatalf("player owned by %v, want team B", owner)
	}
	if len(store.waivers) != 0 {
		t.Fatal("expired waiver row should be cleaned up by the add")
	}
}

func TestSyncFromDraftResultsIdempotent(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(store, 20, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	teamA, teamB := uuid.New(), uuid.New()
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	store.drafted = []DraftResult{
		{ID: uuid.New(), LeagueID: league, FantasyTeamID: teamA, PlayerID: p1, OverallPick: 1},
		{ID: uuid.New(), LeagueID: league, FantasyTeamID: teamB, PlayerID: p2, OverallPick: 2},
		{ID: uuid.New(), LeagueID: league, FantasyTeamID: teamA, PlayerID: p3, OverallPick: 3},
	}

	n, err := app.SyncFromDraftResults(ctx, league, uuid.New())
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d picks, want 3", n)
	}
	ledgerLen := len(store.ledger)

	// Re-running imports nothing and appends nothing
	n, err = app.SyncFromDraftResults(ctx, league, uuid.New())
	if err != nil {
		t.Fatalf("re-sync failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("re-sync imported %d picks, want 0", n)
	}
	if len(store.ledger) != ledgerLen {
		t.Fatal("re-sync must not grow the ledger")
	}
}

func TestLedgerOnlyGrows(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(store, 20, models.WaiverPolicyRolling)
	ctx := context.Background()

	league := uuid.New()
	team := uuid.New()

	prev := 0
	for i := 0; i < 5; i++ {
		player := uuid.New()
		if _, err := app.ApplyMove(ctx, ApplyMoveRequest{LeagueID: league, TeamID: team, ActorID: uuid.New(), Move: addMove(player)}); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
		if len(store.ledger) <= prev {
			t.Fatalf("ledger shrank: %d -> %d", prev, len(store.ledger))
		}
		prev = len(store.ledger)
	}
}
