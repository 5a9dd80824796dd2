// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/check"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
)

func newApplication(opts ...Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// openVault creates the vault directory if needed, opens storage and the
// SQLite index, and runs an initial sync.
func openVault(cfg *Config, logger *slog.Logger) (*storage.FS, *index.DB, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	return store, db, nil
}

// buildRegistry assembles the validator registry from configuration. Types
// listed in checker.disabled_types are mapped to an always-valid validator.
func buildRegistry(app *application, db *index.DB, root string, logger *slog.Logger) check.Registry {
	if app.registry != nil {
		return app.registry
	}

	blank := check.NewBlankChecker(app.config.Checker.HeaderPrefix)
	reg := check.DefaultRegistry(db, root, blank, logger)
	for _, typ := range app.config.Checker.DisabledTypes {
		reg[typ] = check.ValidatorFunc(func(string) bool { return true })
	}
	return reg
}

// Check runs a one-shot link scan and writes the report to the configured
// output. A scan with zero broken links still produces a (possibly empty)
// report and a summary log line.
func Check(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}
	cfg := app.config

	// The report owns stdout, so logs go to stderr.
	logger := newLogger(cfg, os.Stderr)

	store, db, err := openVault(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	mode := check.Mode(cfg.Checker.Mode)
	if app.mode != "" {
		mode = check.Mode(app.mode)
	}
	if mode == check.ModeCurrent && app.note == "" {
		return fmt.Errorf("mode %q requires a note", check.ModeCurrent)
	}

	reg := buildRegistry(app, db, store.Root(), logger)
	src := check.NewVaultSource(db, store.Root(), app.note)
	scanner := check.NewScanner(src, reg, store.Root(), logger)

	records, err := scanner.Scan(mode)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	out := app.out
	if out == nil {
		switch cfg.Checker.Output {
		case OutputStdout:
			out = os.Stdout
		default:
			f, err := os.Create(cfg.Checker.Output)
			if err != nil {
				return fmt.Errorf("open report output: %w", err)
			}
			defer f.Close()
			out = f
		}
	}

	if err := check.WriteReport(out, records, db); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("check complete",
		slog.String("mode", string(mode)),
		slog.Int("broken", len(records)))

	return nil
}

// RunMCP serves the MCP server over stdio.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}
	cfg := app.config

	// Stdio carries the MCP protocol, so logs go to stderr.
	logger := newLogger(cfg, os.Stderr)

	store, db, err := openVault(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	reg := buildRegistry(app, db, store.Root(), logger)
	srv := mcpserver.New(store, db, reg, store.Root(), logger)

	logger.Info("MCP server starting on stdio")

	return srv.ServeStdio()
}

// Run starts the HTTP server with the file watcher and SSE broker.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, db, err := openVault(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build API service and router.
	reg := buildRegistry(app, db, store.Root(), logger)
	svc := api.NewService(store, db, reg, store.Root(), logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback.
	g.Go(func() error {
		index.Watch(gCtx, db, store, cfg.Vault.Path, logger, func(kind, path string) {
			broker.PublishNoteEvent(kind, path)
		})
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
