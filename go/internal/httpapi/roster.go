package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/auth"
	"github.com/pondside/faceoff/go/internal/roster"
)

// RosterHandler serves reads of the roster ledger. Every read is
// membership-gated in the app layer; this handler only shapes the HTTP.
type RosterHandler struct {
	app *roster.App
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(app *roster.App) *RosterHandler {
	return &RosterHandler{app: app}
}

// GetRoster handles GET /leagues/{leagueID}/teams/{teamID}/roster
func (h *RosterHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuid.Parse(r.PathValue("leagueID"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}
	teamID, err := uuid.Parse(r.PathValue("teamID"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid team id")
		return
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	entries, err := h.app.CurrentRoster(r.Context(), actorID, leagueID, teamID)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, entries)
}

// GetOwner handles GET /leagues/{leagueID}/players/{playerID}/owner
func (h *RosterHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuid.Parse(r.PathValue("leagueID"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}
	playerID, err := uuid.Parse(r.PathValue("playerID"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid player id")
		return
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	owner, err := h.app.OwnerOf(r.Context(), actorID, leagueID, playerID)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, map[string]*uuid.UUID{"team_id": owner})
}
