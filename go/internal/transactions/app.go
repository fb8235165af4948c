package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Store defines what the processor needs from the repository. Atomic scopes
// a group of calls to one transaction: every mutation of a move commits
// together with its ledger entry and outbox event, or not at all.
type Store interface {
	Atomic(ctx context.Context, fn func(Store) error) error

	OwnerOf(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error)
	RosterCount(ctx context.Context, leagueID, teamID uuid.UUID) (int, error)
	InsertRosterEntry(ctx context.Context, leagueID, teamID, playerID uuid.UUID, acq models.AcquisitionType) error
	InsertRosterEntryIfAbsent(ctx context.Context, leagueID, teamID, playerID uuid.UUID, acq models.AcquisitionType) (bool, error)
	DeleteRosterEntry(ctx context.Context, leagueID, teamID, playerID uuid.UUID) (bool, error)

	AppendLedgerEntry(ctx context.Context, e *models.TransactionLedgerEntry) error
	LedgerEntries(ctx context.Context, leagueID uuid.UUID, limit int) ([]models.TransactionLedgerEntry, error)
	InsertOutboxEvent(ctx context.Context, leagueID uuid.UUID, eventType string, payload []byte) error
	MarkLineupStale(ctx context.Context, teamID uuid.UUID) error

	WaiverClearsAt(ctx context.Context, leagueID, playerID uuid.UUID) (*time.Time, error)
	PlaceOnWaivers(ctx context.Context, leagueID, playerID uuid.UUID, clearsAt time.Time) error
	RemoveFromWaivers(ctx context.Context, leagueID, playerID uuid.UUID) error
	ClaimantPriorities(ctx context.Context, leagueID, playerID uuid.UUID) (map[uuid.UUID]int, error)
	FileWaiverClaim(ctx context.Context, leagueID, playerID, teamID uuid.UUID) error
	DeleteClaims(ctx context.Context, leagueID, playerID uuid.UUID) error
	RotatePriorityToBack(ctx context.Context, leagueID, teamID uuid.UUID) error

	UnsyncedDraftResults(ctx context.Context, leagueID uuid.UUID) ([]DraftResult, error)
}

// Guard defines what the processor needs from the membership guard
type Guard interface {
	Authorize(ctx context.Context, actorID, leagueID uuid.UUID, required membership.Role) error
	AuthorizeTeamActor(ctx context.Context, actorID, leagueID, teamID uuid.UUID) error
}

// LeaguesRepository defines what the processor needs from the leagues repository
type LeaguesRepository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

const waiverPeriod = 48 * time.Hour

// App is the transaction processor: it authorizes, validates and atomically
// applies roster moves, appending one ledger entry per committed move.
type App struct {
	store   Store
	guard   Guard
	leagues LeaguesRepository
	clock   clockwork.Clock
}

// NewApp creates a new transactions App
func NewApp(store Store, guard Guard, leagues LeaguesRepository, clock clockwork.Clock) *App {
	return &App{
		store:   store,
		guard:   guard,
		leagues: leagues,
		clock:   clock,
	}
}

// ApplyMove authorizes, validates and atomically applies one roster move.
// On ErrConcurrentModification the move is re-validated and re-applied once
// with fresh state; every other failure is surfaced as-is.
func (a *App) ApplyMove(ctx context.Context, req ApplyMoveRequest) (*models.TransactionLedgerEntry, error) {
	if err := a.guard.AuthorizeTeamActor(ctx, req.ActorID, req.LeagueID, req.TeamID); err != nil {
		return nil, err
	}

	league, err := a.leagues.GetLeague(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	entry, err := a.applyOnce(ctx, req, league)
	if errors.Is(err, ErrConcurrentModification) {
		log.Warn().
			Str("league_id", req.LeagueID.String()).
			Str("team_id", req.TeamID.String()).
			Str("type", string(req.Move.Type)).
			Msg("roster move hit concurrent modification, retrying once")
		entry, err = a.applyOnce(ctx, req, league)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("league_id", req.LeagueID.String()).
		Str("team_id", req.TeamID.String()).
		Str("type", string(req.Move.Type)).
		Str("transaction_id", entry.ID.String()).
		Msg("applied roster move")
	return entry, nil
}

func (a *App) applyOnce(ctx context.Context, req ApplyMoveRequest, league *models.League) (*models.TransactionLedgerEntry, error) {
	var entry *models.TransactionLedgerEntry
	err := a.store.Atomic(ctx, func(s Store) error {
		var err error
		switch req.Move.Type {
		case models.TransactionTypeAdd:
			entry, err = a.applyAdd(ctx, s, req, league)
		case models.TransactionTypeDrop:
			entry, err = a.applyDrop(ctx, s, req, league)
		case models.TransactionTypeTrade:
			entry, err = a.applyTrade(ctx, s, req, league)
		case models.TransactionTypeWaiverAward:
			entry, err = a.applyWaiverAward(ctx, s, req, league)
		default:
			err = fmt.Errorf("unknown move type: %s", req.Move.Type)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (a *App) applyAdd(ctx context.Context, s Store, req ApplyMoveRequest, league *models.League) (*models.TransactionLedgerEntry, error) {
	move := req.Move
	if move.PlayerID == uuid.Nil {
		return nil, fmt.Errorf("player_id is required for add")
	}

	owner, err := s.OwnerOf(ctx, req.LeagueID, move.PlayerID)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		return nil, ErrPlayerNotFree
	}

	// A player inside his waiver period is not a free agent; the claim
	// queue decides who gets him, not first-come-first-served.
	clearsAt, err := s.WaiverClearsAt(ctx, req.LeagueID, move.PlayerID)
	if err != nil {
		return nil, err
	}
	if clearsAt != nil {
		if a.clock.Now().Before(*clearsAt) {
			return nil, ErrPlayerNotFree
		}
		// Cleared unclaimed. Tidy the expired row and any dangling claims
		// on the way through.
		if err := s.RemoveFromWaivers(ctx, req.LeagueID, move.PlayerID); err != nil {
			return nil, err
		}
		if err := s.DeleteClaims(ctx, req.LeagueID, move.PlayerID); err != nil {
			return nil, err
		}
	}

	changes := []models.OwnershipChange{{PlayerID: move.PlayerID, ToTeamID: &req.TeamID}}

	if move.DropPlayerID != nil {
		removed, err := s.DeleteRosterEntry(ctx, req.LeagueID, req.TeamID, *move.DropPlayerID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, ErrPlayerNotOwned
		}
		if err := s.PlaceOnWaivers(ctx, req.LeagueID, *move.DropPlayerID, a.clock.Now().Add(waiverPeriod)); err != nil {
			return nil, err
		}
		changes = append(changes, models.OwnershipChange{PlayerID: *move.DropPlayerID, FromTeamID: &req.TeamID})
	}

	// Count taken after any drop so the cap check sees the freed space
	count, err := s.RosterCount(ctx, req.LeagueID, req.TeamID)
	if err != nil {
		return nil, err
	}
	if count+1 > league.Settings.RosterCap {
		return nil, ErrRosterFull
	}

	// The uniqueness constraint decides concurrent races here.
	if err := s.InsertRosterEntry(ctx, req.LeagueID, req.TeamID, move.PlayerID, models.AcquisitionTypeFreeAgent); err != nil {
		return nil, err
	}

	return a.finishMove(ctx, s, req, models.TransactionTypeAdd, changes, []uuid.UUID{req.TeamID})
}

func (a *App) applyDrop(ctx context.Context, s Store, req ApplyMoveRequest, _ *models.League) (*models.TransactionLedgerEntry, error) {
	move := req.Move
	if move.PlayerID == uuid.Nil {
		return nil, fmt.Errorf("player_id is required for drop")
	}

	removed, err := s.DeleteRosterEntry(ctx, req.LeagueID, req.TeamID, move.PlayerID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrPlayerNotOwned
	}

	// Dropped players pass through waivers before becoming free agents
	if err := s.PlaceOnWaivers(ctx, req.LeagueID, move.PlayerID, a.clock.Now().Add(waiverPeriod)); err != nil {
		return nil, err
	}

	changes := []models.OwnershipChange{{PlayerID: move.PlayerID, FromTeamID: &req.TeamID}}
	return a.finishMove(ctx, s, req, models.TransactionTypeDrop, changes, []uuid.UUID{req.TeamID})
}

func (a *App) applyTrade(ctx context.Context, s Store, req ApplyMoveRequest, league *models.League) (*models.TransactionLedgerEntry, error) {
	move := req.Move
	if move.CounterpartyTeamID == nil {
		return nil, fmt.Errorf("counterparty_team_id is required for trade")
	}
	if len(move.PlayersOut) == 0 && len(move.PlayersIn) == 0 {
		return nil, fmt.Errorf("trade must move at least one player")
	}
	counterparty := *move.CounterpartyTeamID

	// Both sides must hold what they are sending before anything moves.
	for _, p := range move.PlayersOut {
		owner, err := s.OwnerOf(ctx, req.LeagueID, p)
		if err != nil {
			return nil, err
		}
		if owner == nil || *owner != req.TeamID {
			return nil, ErrPlayerNotOwned
		}
	}
	for _, p := range move.PlayersIn {
		owner, err := s.OwnerOf(ctx, req.LeagueID, p)
		if err != nil {
			return nil, err
		}
		if owner == nil || *owner != counterparty {
			return nil, ErrPlayerNotOwned
		}
	}

	myCount, err := s.RosterCount(ctx, req.LeagueID, req.TeamID)
	if err != nil {
		return nil, err
	}
	theirCount, err := s.RosterCount(ctx, req.LeagueID, counterparty)
	if err != nil {
		return nil, err
	}
	rosterCap := league.Settings.RosterCap
	if myCount-len(move.PlayersOut)+len(move.PlayersIn) > rosterCap ||
		theirCount-len(move.PlayersIn)+len(move.PlayersOut) > rosterCap {
		return nil, ErrRosterFull
	}

	var changes []models.OwnershipChange
	// Remove both sides first so the uniqueness constraint cannot trip on
	// re-insertion.
	for _, p := range move.PlayersOut {
		removed, err := s.DeleteRosterEntry(ctx, req.LeagueID, req.TeamID, p)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, ErrConcurrentModification
		}
		changes = append(changes, models.OwnershipChange{PlayerID: p, FromTeamID: &req.TeamID, ToTeamID: &counterparty})
	}
	for _, p := range move.PlayersIn {
		removed, err := s.DeleteRosterEntry(ctx, req.LeagueID, counterparty, p)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, ErrConcurrentModification
		}
		changes = append(changes, models.OwnershipChange{PlayerID: p, FromTeamID: &counterparty, ToTeamID: &req.TeamID})
	}
	for _, p := range move.PlayersOut {
		if err := s.InsertRosterEntry(ctx, req.LeagueID, counterparty, p, models.AcquisitionTypeTrade); err != nil {
			return nil, err
		}
	}
	for _, p := range move.PlayersIn {
		if err := s.InsertRosterEntry(ctx, req.LeagueID, req.TeamID, p, models.AcquisitionTypeTrade); err != nil {
			return nil, err
		}
	}

	return a.finishMove(ctx, s, req, models.TransactionTypeTrade, changes, []uuid.UUID{req.TeamID, counterparty})
}

func (a *App) applyWaiverAward(ctx context.Context, s Store, req ApplyMoveRequest, league *models.League) (*models.TransactionLedgerEntry, error) {
	move := req.Move
	if move.PlayerID == uuid.Nil {
		return nil, fmt.Errorf("player_id is required for waiver award")
	}

	clearsAt, err := s.WaiverClearsAt(ctx, req.LeagueID, move.PlayerID)
	if err != nil {
		return nil, err
	}
	if clearsAt == nil {
		return nil, ErrStaleWaiverPriority
	}
	if a.clock.Now().Before(*clearsAt) {
		return nil, ErrWaiverPeriodActive
	}

	priorities, err := s.ClaimantPriorities(ctx, req.LeagueID, move.PlayerID)
	if err != nil {
		return nil, err
	}
	actingPriority, claimed := priorities[req.TeamID]
	if !claimed {
		return nil, ErrStaleWaiverPriority
	}
	for team, p := range priorities {
		if team != req.TeamID && p < actingPriority {
			return nil, ErrStaleWaiverPriority
		}
	}

	changes := []models.OwnershipChange{{PlayerID: move.PlayerID, ToTeamID: &req.TeamID}}

	if move.DropPlayerID != nil {
		removed, err := s.DeleteRosterEntry(ctx, req.LeagueID, req.TeamID, *move.DropPlayerID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, ErrPlayerNotOwned
		}
		if err := s.PlaceOnWaivers(ctx, req.LeagueID, *move.DropPlayerID, a.clock.Now().Add(waiverPeriod)); err != nil {
			return nil, err
		}
		changes = append(changes, models.OwnershipChange{PlayerID: *move.DropPlayerID, FromTeamID: &req.TeamID})
	}

	count, err := s.RosterCount(ctx, req.LeagueID, req.TeamID)
	if err != nil {
		return nil, err
	}
	if count+1 > league.Settings.RosterCap {
		return nil, ErrRosterFull
	}

	if err := s.RemoveFromWaivers(ctx, req.LeagueID, move.PlayerID); err != nil {
		return nil, err
	}
	if err := s.DeleteClaims(ctx, req.LeagueID, move.PlayerID); err != nil {
		return nil, err
	}
	if err := s.InsertRosterEntry(ctx, req.LeagueID, req.TeamID, move.PlayerID, models.AcquisitionTypeWaiver); err != nil {
		return nil, err
	}

	// Waiver order reshuffling is league policy, not hard-coded behavior
	if league.Settings.WaiverPolicy == models.WaiverPolicyRolling {
		if err := s.RotatePriorityToBack(ctx, req.LeagueID, req.TeamID); err != nil {
			return nil, err
		}
	}

	return a.finishMove(ctx, s, req, models.TransactionTypeWaiverAward, changes, []uuid.UUID{req.TeamID})
}

// finishMove appends the ledger entry, queues the outbox event and flags
// affected teams' projections, all inside the caller's transaction.
func (a *App) finishMove(ctx context.Context, s Store, req ApplyMoveRequest, txType models.TransactionType, changes []models.OwnershipChange, staleTeams []uuid.UUID) (*models.TransactionLedgerEntry, error) {
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ownership changes: %w", err)
	}

	entry := &models.TransactionLedgerEntry{
		ID:        uuid.New(),
		LeagueID:  req.LeagueID,
		TeamID:    req.TeamID,
		ActorID:   req.ActorID,
		Type:      txType,
		Changes:   changesJSON,
		CreatedAt: a.clock.Now(),
	}
	if err := s.AppendLedgerEntry(ctx, entry); err != nil {
		return nil, err
	}

	event := TransactionEvent{
		TransactionID: entry.ID,
		LeagueID:      req.LeagueID,
		TeamID:        req.TeamID,
		Type:          txType,
		Changes:       changes,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction event: %w", err)
	}
	if err := s.InsertOutboxEvent(ctx, req.LeagueID, eventType(txType), payload); err != nil {
		return nil, err
	}

	for _, teamID := range staleTeams {
		if err := s.MarkLineupStale(ctx, teamID); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// FileWaiverClaim records a pending claim; the award itself happens through
// ApplyMove once the waiver period ends.
func (a *App) FileWaiverClaim(ctx context.Context, leagueID, actorID, teamID, playerID uuid.UUID) error {
	if err := a.guard.AuthorizeTeamActor(ctx, actorID, leagueID, teamID); err != nil {
		return err
	}

	// Claims are only accepted while the period runs; once it expires the
	// player is a free agent and claims make no sense.
	clearsAt, err := a.store.WaiverClearsAt(ctx, leagueID, playerID)
	if err != nil {
		return err
	}
	if clearsAt == nil || !a.clock.Now().Before(*clearsAt) {
		return ErrStaleWaiverPriority
	}
	return a.store.FileWaiverClaim(ctx, leagueID, playerID, teamID)
}

// SyncFromDraftResults bulk-imports draft picks into the roster ledger.
// Idempotent: already-synced players are skipped via the uniqueness key, so
// re-running after a partial failure only fills the gaps.
func (a *App) SyncFromDraftResults(ctx context.Context, leagueID, actorID uuid.UUID) (int, error) {
	if err := a.guard.Authorize(ctx, actorID, leagueID, membership.RoleCommissioner); err != nil {
		return 0, err
	}

	imported := 0
	err := a.store.Atomic(ctx, func(s Store) error {
		results, err := s.UnsyncedDraftResults(ctx, leagueID)
		if err != nil {
			return err
		}

		staleTeams := make(map[uuid.UUID]bool)
		for _, pick := range results {
			inserted, err := s.InsertRosterEntryIfAbsent(ctx, pick.LeagueID, pick.FantasyTeamID, pick.PlayerID, models.AcquisitionTypeDraft)
			if err != nil {
				return err
			}
			if !inserted {
				continue
			}

			changes, err := json.Marshal([]models.OwnershipChange{{PlayerID: pick.PlayerID, ToTeamID: &pick.FantasyTeamID}})
			if err != nil {
				return fmt.Errorf("failed to marshal ownership changes: %w", err)
			}
			entry := &models.TransactionLedgerEntry{
				ID:        uuid.New(),
				LeagueID:  pick.LeagueID,
				TeamID:    pick.FantasyTeamID,
				ActorID:   actorID,
				Type:      models.TransactionTypeDraftSync,
				Changes:   changes,
				CreatedAt: a.clock.Now(),
			}
			if err := s.AppendLedgerEntry(ctx, entry); err != nil {
				return err
			}
			staleTeams[pick.FantasyTeamID] = true
			imported++
		}

		for teamID := range staleTeams {
			if err := s.MarkLineupStale(ctx, teamID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("league_id", leagueID.String()).
		Int("imported", imported).
		Msg("synced draft results into roster ledger")
	return imported, nil
}

// LedgerEntries returns the league's audit trail for display
func (a *App) LedgerEntries(ctx context.Context, leagueID, actorID uuid.UUID, limit int) ([]models.TransactionLedgerEntry, error) {
	if err := a.guard.Authorize(ctx, actorID, leagueID, membership.RoleMember); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return a.store.LedgerEntries(ctx, leagueID, limit)
}

func eventType(t models.TransactionType) string {
	switch t {
	case models.TransactionTypeAdd:
		return "roster.add"
	case models.TransactionTypeDrop:
		return "roster.drop"
	case models.TransactionTypeTrade:
		return "roster.trade"
	case models.TransactionTypeWaiverAward:
		return "roster.waiver_award"
	case models.TransactionTypeDraftSync:
		return "roster.draft_sync"
	}
	return "roster.unknown"
}
