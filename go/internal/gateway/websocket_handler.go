package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/auth"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/rs/zerolog/log"
)

// Guard defines what the handler needs from the membership guard
type Guard interface {
	Authorize(ctx context.Context, actorID, leagueID uuid.UUID, required membership.Role) error
}

// WebSocketHandler upgrades league-watch requests. Only league members get a
// connection; the check runs before the upgrade, so outsiders never hold a
// socket at all.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	guard             Guard
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, guard Guard) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		guard:             guard,
	}
}

// HandleLeagueConnection handles WebSocket connections for a league
func (h *WebSocketHandler) HandleLeagueConnection(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuid.Parse(r.PathValue("leagueID"))
	if err != nil {
		http.Error(w, "invalid league id", http.StatusBadRequest)
		return
	}

	actorID, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.guard.Authorize(r.Context(), actorID, leagueID, membership.RoleMember); err != nil {
		http.Error(w, "not a league member", http.StatusForbidden)
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, actorID, leagueID); err != nil {
		log.Error().Err(err).
			Str("league_id", leagueID.String()).
			Str("user_id", actorID.String()).
			Msg("failed to upgrade WebSocket connection")
		return
	}
}

// HandleConnectionStats returns counts of active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	total, perLeague := h.connectionManager.ConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"total_connections":%d,"active_leagues":%d}`, total, len(perLeague))
}
