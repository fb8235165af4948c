package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestActorTokenRoundTrip(t *testing.T) {
	actorID := uuid.New()
	token := GenerateActorToken(actorID, "test-secret")

	got, err := VerifyActorToken(token, "test-secret")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got != actorID {
		t.Fatalf("verified actor = %v, want %v", got, actorID)
	}
}

func TestActorTokenRejectsTampering(t *testing.T) {
	actorID := uuid.New()
	forgedID := uuid.New()
	token := GenerateActorToken(actorID, "test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", GenerateActorToken(actorID, "other-secret")},
		{"swapped identity", forgedID.String() + "." + token[37:]},
		{"no signature", actorID.String()},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyActorToken(tt.token, "test-secret"); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("VerifyActorToken(%q) = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestMiddlewareSetsActor(t *testing.T) {
	actorID := uuid.New()
	secret := "test-secret"

	var gotActor uuid.UUID
	var gotOK bool
	handler := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, gotOK = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+GenerateActorToken(actorID, secret))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK || gotActor != actorID {
		t.Fatalf("actor from context = %v %v, want %v", gotActor, gotOK, actorID)
	}
}

func TestMiddlewareAnonymousWithoutToken(t *testing.T) {
	handler := Middleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); ok {
			t.Error("anonymous request carries an actor")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestMiddlewareRejectsForgedToken(t *testing.T) {
	handler := Middleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); ok {
			t.Error("forged token produced an actor")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+GenerateActorToken(uuid.New(), "attacker-secret"))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestWithActor(t *testing.T) {
	actorID := uuid.New()
	ctx := WithActor(context.Background(), actorID)
	if got, ok := ActorFromContext(ctx); !ok || got != actorID {
		t.Fatalf("ActorFromContext = %v %v", got, ok)
	}
}
