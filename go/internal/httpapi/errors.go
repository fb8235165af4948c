package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/pondside/faceoff/go/internal/lineup"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/transactions"
)

// RespondAppError maps domain errors onto HTTP statuses. Authorization
// failures are 403 regardless of what the request asked for; precondition
// failures on moves are 409 so clients know to refresh and retry.
func RespondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membership.ErrNotAMember):
		ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, transactions.ErrPlayerNotFree),
		errors.Is(err, transactions.ErrPlayerNotOwned),
		errors.Is(err, transactions.ErrRosterFull),
		errors.Is(err, transactions.ErrStaleWaiverPriority),
		errors.Is(err, transactions.ErrWaiverPeriodActive),
		errors.Is(err, transactions.ErrConcurrentModification),
		errors.Is(err, lineup.ErrDateLocked):
		ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, lineup.ErrUnknownSlot),
		errors.Is(err, lineup.ErrPlayerNotRostered):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		ErrorResponse(w, http.StatusNotFound, "not found")
	default:
		ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}
