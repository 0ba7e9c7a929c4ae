// Package main is the entry point for the Inkwell API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/authz"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/router"
	"inkwell/internal/store"
)

func main() {
	// Structured logger — outputs text; level is fixed at debug for now.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible article read cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, 0)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	articleCache := cache.NewArticleCache(valkeyClient, cache.DefaultArticleTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	tagStore := store.NewTagStore(db)
	articleStore := store.NewArticleStore(db, tagStore)
	favoriteStore := store.NewFavoriteStore(db)
	commentStore := store.NewCommentStore(db, authz.OwnerPolicy{})

	// Reconcile counter caches left inconsistent by an earlier crash.
	if fixed, err := favoriteStore.RecountAll(); err != nil {
		slog.Error("failed to reconcile favorites counters", "error", err)
		os.Exit(1)
	} else if fixed > 0 {
		slog.Warn("favorites counters reconciled", "articles", fixed)
	}

	// Create handler groups with their dependencies.
	articleHandlers := handlers.NewArticles(articleStore, tagStore, favoriteStore, userStore, articleCache)
	commentHandlers := handlers.NewComments(commentStore, articleStore, userStore)
	profileHandlers := handlers.NewProfiles(userStore)
	tagHandlers := handlers.NewTags(tagStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(articleHandlers, commentHandlers, profileHandlers, tagHandlers)

	// Create the HTTP server with sensible timeouts. Every endpoint is a
	// single round trip to the store, so the write timeout stays short.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
