package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey int

const actorKey contextKey = iota

// ActorFromContext returns the authenticated actor id, if any
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey).(uuid.UUID)
	return id, ok
}

// WithActor returns a context carrying the actor id, for tests and internal
// callers.
func WithActor(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// Middleware verifies the Bearer token and stashes the actor id in the
// request context. Requests without a valid token pass through anonymous;
// the membership guard fails them closed at the authorization step.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				// Browsers cannot set headers on WebSocket upgrades
				token = r.URL.Query().Get("token")
			}
			if token != "" {
				if actorID, err := VerifyActorToken(token, secret); err == nil {
					r = r.WithContext(WithActor(r.Context(), actorID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
