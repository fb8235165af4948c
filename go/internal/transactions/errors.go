package transactions

import "errors"

var (
	// ErrPlayerNotFree is returned when an add targets a player who already
	// has a roster entry in the league. The loser of a concurrent race on a
	// free agent gets this too: the database uniqueness constraint on
	// (league_id, player_id) decides the winner.
	ErrPlayerNotFree = errors.New("player is not a free agent")

	// ErrPlayerNotOwned is returned when a drop or trade names a player the
	// source team does not currently hold.
	ErrPlayerNotOwned = errors.New("player not on roster")

	// ErrRosterFull is returned when a move would push a team past its
	// roster cap.
	ErrRosterFull = errors.New("roster is full")

	// ErrStaleWaiverPriority is returned when a waiver award is attempted by
	// a team that no longer holds priority, or for a player no longer on
	// waivers.
	ErrStaleWaiverPriority = errors.New("stale waiver priority")

	// ErrWaiverPeriodActive is returned when a waiver award is attempted
	// before the player's waiver period has ended. Claims are collected
	// during the period; the award is only valid once it expires.
	ErrWaiverPeriodActive = errors.New("waiver period still active")

	// ErrConcurrentModification is returned when the ledger changed between
	// validation and commit. Safe to retry once with fresh state; never
	// resolved by overwriting.
	ErrConcurrentModification = errors.New("concurrent roster modification")
)
