package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/auth"
	"github.com/pondside/faceoff/go/internal/lineup"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/models"
)

// LineupHandler serves lineup projections, slot preferences and snapshot locks
type LineupHandler struct {
	app   *lineup.App
	guard *membership.Guard
}

// NewLineupHandler creates a new lineup handler
func NewLineupHandler(app *lineup.App, guard *membership.Guard) *LineupHandler {
	return &LineupHandler{app: app, guard: guard}
}

// GetProjection handles GET /leagues/{leagueID}/teams/{teamID}/lineup
func (h *LineupHandler) GetProjection(w http.ResponseWriter, r *http.Request) {
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
	proj, err := h.app.Projection(r.Context(), actorID, leagueID, teamID, r.URL.Query().Get("date"))
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, proj)
}

// SetSlotPreference handles PUT /leagues/{leagueID}/teams/{teamID}/lineup/preferences
func (h *LineupHandler) SetSlotPreference(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		PlayerID uuid.UUID     `json:"player_id"`
		Slot     models.SlotID `json:"slot"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	if err := h.app.SetSlotPreference(r.Context(), actorID, leagueID, teamID, req.PlayerID, req.Slot); err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, map[string]string{"status": "preference saved"})
}

// ClearSlotPreference handles DELETE /leagues/{leagueID}/teams/{teamID}/lineup/preferences/{playerID}
func (h *LineupHandler) ClearSlotPreference(w http.ResponseWriter, r *http.Request) {
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
	playerID, err := uuid.Parse(r.PathValue("playerID"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid player id")
		return
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	if err := h.app.ClearPreference(r.Context(), actorID, leagueID, teamID, playerID); err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, map[string]string{"status": "preference cleared"})
}

// LockSnapshot handles POST /leagues/{leagueID}/teams/{teamID}/lineup/lock.
// Commissioner-only; in production the scoring scheduler calls the app
// directly and this exists for manual intervention.
func (h *LineupHandler) LockSnapshot(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		MatchupID uuid.UUID `json:"matchup_id"`
		Date      string    `json:"date"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Date == "" {
		ErrorResponse(w, http.StatusBadRequest, "date is required")
		return
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	if err := h.guard.Authorize(r.Context(), actorID, leagueID, membership.RoleCommissioner); err != nil {
		RespondAppError(w, err)
		return
	}

	snapshot, err := h.app.LockDailySnapshot(r.Context(), leagueID, teamID, req.MatchupID, req.Date)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, snapshot)
}
