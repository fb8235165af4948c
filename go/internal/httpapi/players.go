package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/player"
)

// PlayersHandler serves the shared NHL player pool
type PlayersHandler struct {
	app *player.App
}

// NewPlayersHandler creates a new players handler
func NewPlayersHandler(app *player.App) *PlayersHandler {
	return &PlayersHandler{app: app}
}

// UpsertPlayer handles POST /players
func (h *PlayersHandler) UpsertPlayer(w http.ResponseWriter, r *http.Request) {
	var req player.UpsertPlayerRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p, err := h.app.UpsertPlayer(r.Context(), req)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	JSONResponse(w, http.StatusOK, p)
}

// GetPlayer handles GET /players/{id}
func (h *PlayersHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid player id")
		return
	}

	p, err := h.app.GetPlayer(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, p)
}

// UpdateInjuryStatus handles PUT /players/{id}/injury-status
func (h *PlayersHandler) UpdateInjuryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid player id")
		return
	}

	var req struct {
		InjuryStatus models.InjuryStatus `json:"injury_status"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p, err := h.app.UpdateInjuryStatus(r.Context(), id, req.InjuryStatus)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	JSONResponse(w, http.StatusOK, p)
}
