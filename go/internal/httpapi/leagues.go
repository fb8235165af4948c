package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/fantasyteam"
	"github.com/pondside/faceoff/go/internal/leagues"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/rs/zerolog/log"
)

// LeaguesHandler serves league and team management
type LeaguesHandler struct {
	leagues *leagues.App
	teams   *fantasyteam.App
}

// NewLeaguesHandler creates a new leagues handler
func NewLeaguesHandler(leaguesApp *leagues.App, teamsApp *fantasyteam.App) *LeaguesHandler {
	return &LeaguesHandler{leagues: leaguesApp, teams: teamsApp}
}

// CreateLeague handles POST /leagues
func (h *LeaguesHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var req leagues.CreateLeagueRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	league, err := h.leagues.CreateLeague(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("failed to create league")
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	JSONResponse(w, http.StatusCreated, league)
}

// GetLeague handles GET /leagues/{id}
func (h *LeaguesHandler) GetLeague(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}

	league, err := h.leagues.GetLeague(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, league)
}

// UpdateLeague handles PUT /leagues/{id}
func (h *LeaguesHandler) UpdateLeague(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}

	var req leagues.UpdateLeagueRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	league, err := h.leagues.UpdateLeague(r.Context(), id, req)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, league)
}

// UpdateLeagueSettings handles PUT /leagues/{id}/settings
func (h *LeaguesHandler) UpdateLeagueSettings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}

	var settings models.LeagueSettings
	if err := ParseJSONBody(r, &settings); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	league, err := h.leagues.UpdateLeagueSettings(r.Context(), id, settings)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, league)
}

// CreateTeam handles POST /teams
func (h *LeaguesHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req fantasyteam.CreateFantasyTeamRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	team, err := h.teams.CreateFantasyTeam(r.Context(), req)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	JSONResponse(w, http.StatusCreated, team)
}

// GetTeam handles GET /teams/{id}
func (h *LeaguesHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid team id")
		return
	}

	team, err := h.teams.GetFantasyTeam(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, team)
}

// ListLeagueTeams handles GET /leagues/{id}/teams
func (h *LeaguesHandler) ListLeagueTeams(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}

	teams, err := h.teams.GetFantasyTeamsByLeague(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, teams)
}

// ClaimTeam handles POST /teams/{id}/claim
func (h *LeaguesHandler) ClaimTeam(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid team id")
		return
	}

	var req fantasyteam.ClaimFantasyTeamRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	team, err := h.teams.ClaimFantasyTeam(r.Context(), id, req.OwnerID)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, team)
}
