package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/pondside/faceoff/go/internal/gateway"
	"github.com/pondside/faceoff/go/internal/outbox"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tokenSecret := os.Getenv("TOKEN_SECRET")
	if tokenSecret == "" {
		log.Fatal().Msg("TOKEN_SECRET environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, dsn, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer database.Close()

	services := setupServices(database)

	// Message bus: the outbox drains into NATS, the gateway fans NATS out to
	// WebSocket clients. Roster consistency never depends on either.
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("failed to connect to NATS")
	}
	defer nc.Close()
	publisher := outbox.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix)

	connectionManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	wsHandler := gateway.NewWebSocketHandler(connectionManager, services.Guard)

	consumerCfg := gateway.DefaultConsumerConfig()
	consumerCfg.URL = cfg.NATS.URL
	consumerCfg.SubjectFilter = cfg.NATS.SubjectPrefix + ".>"
	consumer, err := gateway.NewEventConsumer(connectionManager, consumerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway consumer")
	}

	server := setupServer(cfg, services, wsHandler, tokenSecret)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		connectionManager.Start(ctx)
		return nil
	})

	g.Go(func() error {
		if err := consumer.Start(); err != nil {
			return err
		}
		<-ctx.Done()
		return consumer.Stop()
	})

	g.Go(func() error {
		return runOutbox(ctx, cfg, database, dsn, publisher)
	})

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("shutdown complete")
}

// runOutbox starts either the LISTEN/NOTIFY listener or the polling worker.
// The listener delivers with lower latency; the poller needs no extra
// database connection.
func runOutbox(ctx context.Context, cfg *Config, database *sql.DB, dsn string, publisher outbox.Publisher) error {
	if cfg.Outbox.Mode == "listener" {
		listenerCfg := outbox.DefaultListenerConfig()
		listenerCfg.DatabaseURL = dsn
		listenerCfg.BatchSize = cfg.Outbox.BatchSize

		listener, err := outbox.NewListener(database, publisher, listenerCfg)
		if err != nil {
			return err
		}
		return listener.Start(ctx)
	}

	workerCfg := outbox.DefaultConfig()
	workerCfg.PollInterval = cfg.Outbox.PollInterval
	workerCfg.BatchSize = cfg.Outbox.BatchSize

	worker := outbox.NewWorker(database, publisher, workerCfg)
	if err := worker.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return worker.Stop()
}
