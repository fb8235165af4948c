package player

import "errors"

// ErrUnknownPosition is returned when an upstream position code cannot be
// normalized to a known NHL position
var ErrUnknownPosition = errors.New("unknown position")
