package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pondside/faceoff/go/internal/auth"
	"github.com/pondside/faceoff/go/internal/users"
	"github.com/rs/zerolog/log"
)

// UsersHandler serves user CRUD plus dev token minting
type UsersHandler struct {
	app         *users.App
	tokenSecret string
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(app *users.App, tokenSecret string) *UsersHandler {
	return &UsersHandler{app: app, tokenSecret: tokenSecret}
}

// CreateUser handles POST /users
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req users.CreateUserRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Username == "" || req.Email == "" {
		ErrorResponse(w, http.StatusBadRequest, "username and email are required")
		return
	}

	user, err := h.app.CreateUser(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("failed to create user")
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, user)
}

// GetUser handles GET /users/{id}
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.app.GetUser(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, user)
}

// UpdateUser handles PUT /users/{id}
func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req users.UpdateUserRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.app.UpdateUser(r.Context(), id, req)
	if err != nil {
		RespondAppError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, user)
}

// IssueToken handles POST /users/{id}/token. Development stand-in for a real
// identity provider: it mints a signed actor token for an existing user.
func (h *UsersHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	// Only mint for users that exist
	if _, err := h.app.GetUser(r.Context(), id); err != nil {
		RespondAppError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, map[string]string{
		"token": auth.GenerateActorToken(id, h.tokenSecret),
	})
}
