package lineup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Store defines what the app needs from the lineup repository
type Store interface {
	SlotPreferences(ctx context.Context, teamID uuid.UUID) (map[uuid.UUID]models.SlotID, error)
	SetSlotPreference(ctx context.Context, teamID, playerID uuid.UUID, slot models.SlotID) error
	DeleteSlotPreference(ctx context.Context, teamID, playerID uuid.UUID) error
	GetProjection(ctx context.Context, teamID uuid.UUID, date string) (*models.LineupProjection, bool, error)
	SaveProjection(ctx context.Context, proj *models.LineupProjection) error
	MarkStale(ctx context.Context, teamID uuid.UUID, date string) error
	IsDateLocked(ctx context.Context, teamID uuid.UUID, date string) (bool, error)
	LockedSnapshotForDate(ctx context.Context, teamID uuid.UUID, date string) (*models.DailyRosterSnapshot, error)
	GetSnapshot(ctx context.Context, teamID, matchupID uuid.UUID, date string) (*models.DailyRosterSnapshot, error)
	InsertSnapshot(ctx context.Context, s *models.DailyRosterSnapshot) (bool, error)
}

// RosterRepository defines what the app needs from the roster ledger
type RosterRepository interface {
	CurrentRoster(ctx context.Context, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error)
	OwnerOf(ctx context.Context, leagueID, playerID uuid.UUID) (*uuid.UUID, error)
}

// PlayersRepository defines what the app needs from the player pool
type PlayersRepository interface {
	GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
}

// LeaguesRepository defines what the app needs from the leagues repository
type LeaguesRepository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

// Guard defines what the app needs from the membership guard
type Guard interface {
	Authorize(ctx context.Context, actorID, leagueID uuid.UUID, required membership.Role) error
	AuthorizeTeamActor(ctx context.Context, actorID, leagueID, teamID uuid.UUID) error
}

const dateLayout = "2006-01-02"

// App serves lineup projections. Projections are a derived view over the
// roster ledger plus slot preferences; the only stored lineups with authority
// are the locked daily snapshots.
type App struct {
	store   Store
	roster  RosterRepository
	players PlayersRepository
	leagues LeaguesRepository
	guard   Guard
	clock   clockwork.Clock
}

// NewApp creates a new lineup App
func NewApp(store Store, roster RosterRepository, players PlayersRepository, leagues LeaguesRepository, guard Guard, clock clockwork.Clock) *App {
	return &App{
		store:   store,
		roster:  roster,
		players: players,
		leagues: leagues,
		guard:   guard,
		clock:   clock,
	}
}

// SetSlotPreference records where the owner wants a rostered player to sit.
// The stored projection for the date goes stale; the next read recomputes.
func (a *App) SetSlotPreference(ctx context.Context, actorID, leagueID, teamID, playerID uuid.UUID, slot models.SlotID) error {
	if err := a.guard.AuthorizeTeamActor(ctx, actorID, leagueID, teamID); err != nil {
		return err
	}

	owner, err := a.roster.OwnerOf(ctx, leagueID, playerID)
	if err != nil {
		return err
	}
	if owner == nil || *owner != teamID {
		return ErrPlayerNotRostered
	}

	if slot != models.SlotBench && slot != models.SlotIR {
		league, err := a.leagues.GetLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("league not found: %w", err)
		}
		valid := false
		for _, s := range SlotIDsFor(league.Settings.SlotCounts) {
			if s == slot {
				valid = true
				break
			}
		}
		if !valid {
			return ErrUnknownSlot
		}
	}

	today := a.clock.Now().UTC().Format(dateLayout)
	locked, err := a.store.IsDateLocked(ctx, teamID, today)
	if err != nil {
		return err
	}
	if locked {
		return ErrDateLocked
	}

	if err := a.store.SetSlotPreference(ctx, teamID, playerID, slot); err != nil {
		return err
	}
	return a.store.MarkStale(ctx, teamID, today)
}

// Projection returns the team's lineup for the date. Locked dates come back
// frozen from the snapshot; otherwise a fresh projection is computed whenever
// the stored one is stale or missing.
func (a *App) Projection(ctx context.Context, actorID, leagueID, teamID uuid.UUID, date string) (*models.LineupProjection, error) {
	if err := a.guard.Authorize(ctx, actorID, leagueID, membership.RoleMember); err != nil {
		return nil, err
	}
	if date == "" {
		date = a.clock.Now().UTC().Format(dateLayout)
	}

	snapshot, err := a.store.LockedSnapshotForDate(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		var proj models.LineupProjection
		if err := json.Unmarshal(snapshot.Lineup, &proj); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot lineup: %w", err)
		}
		return &proj, nil
	}

	proj, stale, err := a.store.GetProjection(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	if proj != nil && !stale {
		return proj, nil
	}
	return a.recompute(ctx, leagueID, teamID, date)
}

// Recompute rebuilds and stores the projection from current state. Locked
// dates are refused: the snapshot is the record there.
func (a *App) Recompute(ctx context.Context, leagueID, teamID uuid.UUID, date string) (*models.LineupProjection, error) {
	locked, err := a.store.IsDateLocked(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, ErrDateLocked
	}
	return a.recompute(ctx, leagueID, teamID, date)
}

func (a *App) recompute(ctx context.Context, leagueID, teamID uuid.UUID, date string) (*models.LineupProjection, error) {
	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	entries, err := a.roster.CurrentRoster(ctx, leagueID, teamID)
	if err != nil {
		return nil, err
	}
	prefs, err := a.store.SlotPreferences(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.PlayerID
	}
	players, err := a.players.GetPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	proj := BuildProjection(BuildInput{
		TeamID:   teamID,
		Date:     date,
		Entries:  entries,
		Players:  byID,
		Prefs:    prefs,
		Settings: league.Settings,
	}, a.clock.Now())

	if err := a.store.SaveProjection(ctx, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

// LockDailySnapshot freezes the team's lineup for a matchup date. Idempotent:
// once a snapshot exists for (team, matchup, date) it is never replaced, so a
// rerun of the lock job cannot rewrite history.
func (a *App) LockDailySnapshot(ctx context.Context, leagueID, teamID, matchupID uuid.UUID, date string) (*models.DailyRosterSnapshot, error) {
	if existing, err := a.store.GetSnapshot(ctx, teamID, matchupID, date); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	proj, err := a.recompute(ctx, leagueID, teamID, date)
	if err != nil {
		return nil, err
	}
	lineup, err := json.Marshal(proj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot lineup: %w", err)
	}

	snapshot := &models.DailyRosterSnapshot{
		ID:            uuid.New(),
		FantasyTeamID: teamID,
		MatchupID:     matchupID,
		Date:          date,
		Lineup:        lineup,
		Locked:        true,
		LockedAt:      a.clock.Now(),
	}
	created, err := a.store.InsertSnapshot(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a race with another lock run; the stored row wins.
		return a.store.GetSnapshot(ctx, teamID, matchupID, date)
	}

	log.Info().
		Str("team_id", teamID.String()).
		Str("matchup_id", matchupID.String()).
		Str("date", date).
		Msg("locked daily roster snapshot")
	return snapshot, nil
}

// ClearPreference drops a player's slot preference, used when he leaves the
// roster so a later re-add starts from the bench.
func (a *App) ClearPreference(ctx context.Context, actorID, leagueID, teamID, playerID uuid.UUID) error {
	if err := a.guard.AuthorizeTeamActor(ctx, actorID, leagueID, teamID); err != nil {
		return err
	}
	if err := a.store.DeleteSlotPreference(ctx, teamID, playerID); err != nil {
		return err
	}
	return a.store.MarkStale(ctx, teamID, a.clock.Now().UTC().Format(dateLayout))
}
