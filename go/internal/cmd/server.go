package main

import (
	"fmt"
	"net/http"

	"github.com/pondside/faceoff/go/internal/auth"
	"github.com/pondside/faceoff/go/internal/gateway"
	"github.com/pondside/faceoff/go/internal/httpapi"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(cfg *Config, services *Services, wsHandler *gateway.WebSocketHandler, tokenSecret string) *http.Server {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	// REST API
	api := httpapi.NewRouter(setupHandlers(services, tokenSecret))
	mux.Handle("/", api)

	// Live league activity over WebSocket
	mux.HandleFunc("GET /ws/leagues/{leagueID}", wsHandler.HandleLeagueConnection)
	mux.HandleFunc("GET /ws/stats", wsHandler.HandleConnectionStats)

	setupHealthCheck(mux)

	// Actor identity comes from the token middleware, everything downstream
	// trusts only the context
	handler := auth.Middleware(tokenSecret)(c.Handler(mux))

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
