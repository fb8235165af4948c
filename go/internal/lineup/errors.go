package lineup

import "errors"

var (
	// ErrDateLocked is returned when a recompute or preference change targets
	// a date whose snapshot has already been frozen for scoring.
	ErrDateLocked = errors.New("lineup date is locked")

	// ErrPlayerNotRostered is returned when a slot preference names a player
	// the team does not currently hold.
	ErrPlayerNotRostered = errors.New("player not on roster")

	// ErrUnknownSlot is returned when a slot preference names a slot the
	// league's settings do not configure.
	ErrUnknownSlot = errors.New("unknown lineup slot")
)
