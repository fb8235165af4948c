package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/auth"
	"github.com/pondside/faceoff/go/internal/transactions"
)

// TransactionsHandler serves roster moves and the transaction ledger
type TransactionsHandler struct {
	app *transactions.App
}

// NewTransactionsHandler creates a new transactions handler
func NewTransactionsHandler(app *transactions.App) *TransactionsHandler {
	return &TransactionsHandler{app: app}
}

// ApplyMove handles POST /leagues/{leagueID}/teams/{teamID}/moves
func (h *TransactionsHandler) ApplyMove(w http.ResponseWriter, r *http.Request) {
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

	var move transactions.Move
	if err := ParseJSONBody(r, &move); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// The actor is whoever the token says, never whoever the body claims
	actorID, _ := auth.ActorFromContext(r.Context())

	entry, err := h.app.ApplyMove(r.Context(), transactions.ApplyMoveRequest{
		LeagueID: leagueID,
		TeamID:   teamID,
		ActorID:  actorID,
		Move:     move,
	})
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, entry)
}

// FileWaiverClaim handles POST /leagues/{leagueID}/teams/{teamID}/waiver-claims
func (h *TransactionsHandler) FileWaiverClaim(w http.ResponseWriter, r *http.Request) {
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
		PlayerID uuid.UUID `json:"player_id"`
	}
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	if err := h.app.FileWaiverClaim(r.Context(), leagueID, actorID, teamID, req.PlayerID); err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, map[string]string{"status": "claim filed"})
}

// SyncDraftResults handles POST /leagues/{leagueID}/draft-sync
func (h *TransactionsHandler) SyncDraftResults(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuid.Parse(r.PathValue("leagueID"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	imported, err := h.app.SyncFromDraftResults(r.Context(), leagueID, actorID)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, map[string]int{"imported": imported})
}

// GetLedger handles GET /leagues/{leagueID}/transactions
func (h *TransactionsHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuid.Parse(r.PathValue("leagueID"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid league id")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	actorID, _ := auth.ActorFromContext(r.Context())
	entries, err := h.app.LedgerEntries(r.Context(), leagueID, actorID, limit)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, entries)
}
