// main is the entry point of the Students API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the configured storage backend (sqlite, postgres or memory)
//  4. Build the student service and register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close storage, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
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
	"time"

	"github.com/aanand-mishra/students-service/internal/config"
	"github.com/aanand-mishra/students-service/internal/http/handlers/student"
	"github.com/aanand-mishra/students-service/internal/http/middleware"
	"github.com/aanand-mishra/students-service/internal/service"
	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/storage/memory"
	"github.com/aanand-mishra/students-service/internal/storage/postgres"
	"github.com/aanand-mishra/students-service/internal/storage/sqlite"
	"github.com/aanand-mishra/students-service/internal/utils/response"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("storage_driver", cfg.Storage.Driver),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// Everything past this point only sees the storage.Storage interface.
	store, err := openStorage(context.Background(), cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	// ── 4. Service + Routes ───────────────────────────────────────────────
	svc := service.NewStudentService(store)

	router := http.NewServeMux()
	student.Register(router, svc)
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OK())
	})

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recoverer(log),
	)

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,

		// Timeouts guard against slow clients holding connections open.
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks, so it runs off the main goroutine to leave
	// room for the shutdown logic below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// http.ErrServerClosed is the expected result of Shutdown().
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so the signal is not missed if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the backend selected by cfg.Storage.Driver.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.StoragePath)
	case config.DriverPostgres:
		return postgres.New(ctx, postgres.Config{
			URL:            cfg.Storage.DatabaseURL,
			MaxConns:       cfg.Storage.MaxConns,
			ConnectTimeout: 10 * time.Second,
		})
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
