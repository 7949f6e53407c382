// main is the entry point of the Friends API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (defaults, optional YAML file, environment)
//  2. Initialise the logger
//  3. Open the friend store once; every request shares it
//  4. Build the router
//  5. Start the HTTP server in a separate goroutine
//  6. Block until SIGINT / SIGTERM
//  7. Gracefully shut down the server, then close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/friends-api --config=config/local.yaml
//
// or with no file at all:
//
//	PORT=8080 STORAGE_DRIVER=sqlite go run ./cmd/friends-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/friends-api/internal/config"
	"github.com/aanand-mishra/friends-api/internal/http/server"
	"github.com/aanand-mishra/friends-api/internal/metrics"
	"github.com/aanand-mishra/friends-api/internal/storage"
	"github.com/aanand-mishra/friends-api/internal/storage/memory"
	"github.com/aanand-mishra/friends-api/internal/storage/mongo"
	"github.com/aanand-mishra/friends-api/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting friends-api",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage ───────────────────────────────────────────────────────────
	// Opened once, handed to the handlers as the storage.Storage interface.
	backend, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	m := metrics.NewManager(metrics.WithProcessMetrics())
	store := storage.Instrument(storage.WithTimeout(backend, cfg.Storage.Timeout), m)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.NewRouter(store, m),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// ListenAndServe blocks, so it runs in its own goroutine and main waits
	// on the signal context below.
	go func() {
		log.Info("server started", slog.String("address", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		exitCode = 1
	}

	if err := store.Close(shutdownCtx); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
		exitCode = 1
	}

	log.Info("server stopped")
	os.Exit(exitCode)
}

// openStorage builds the backend named by cfg.Driver. A non-positive
// cfg.Timeout means no deadline, as for storage.WithTimeout.
func openStorage(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch cfg.Driver {
	case config.DriverMongo:
		return mongo.New(ctx, cfg.URI, cfg.Database, cfg.Collection)
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.Path)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging: JSON at DEBUG. Production (prod): JSON at INFO.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
}
