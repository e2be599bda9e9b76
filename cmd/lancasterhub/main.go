// Package main is the entry point for the community hub API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"lancasterhub/internal/auth"
	"lancasterhub/internal/cache"
	"lancasterhub/internal/config"
	"lancasterhub/internal/database"
	"lancasterhub/internal/fanout"
	"lancasterhub/internal/handlers"
	"lancasterhub/internal/middleware"
	"lancasterhub/internal/publish"
	"lancasterhub/internal/router"
	"lancasterhub/internal/session"
	"lancasterhub/internal/store"
	"lancasterhub/internal/translation"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"translation", cfg.TranslationEnabled(),
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
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

	// Seed the language table (existing rows are left alone).
	langs, err := database.DefaultLanguages()
	if err != nil {
		slog.Error("failed to load built-in languages", "error", err)
		os.Exit(1)
	}
	inserted, err := database.SeedLanguages(ctx, db, langs)
	if err != nil {
		slog.Error("failed to seed languages", "error", err)
		os.Exit(1)
	}
	if inserted > 0 {
		slog.Info("languages seeded", "inserted", inserted)
	}

	// Connect to Valkey (optional). Without it admin tokens live in memory
	// and reader views are not cached.
	var (
		valkeyClient *redis.Client
		tokens       session.Tokens = session.NewMemoryStore()
		views        *cache.ProjectionCache
	)
	if cfg.ValkeyEnabled() {
		valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, using in-memory tokens and no view cache", "error", err)
		} else {
			defer valkeyClient.Close()
			tokens = session.NewStore(valkeyClient)
			views = cache.NewProjectionCache(valkeyClient, cfg.CacheTTL)
		}
	}

	// Initialize data stores.
	contentStore := store.NewContentStore(db)
	languageStore := store.NewLanguageStore(db)
	projector := store.NewProjector(bun.NewDB(db, pgdialect.New()))

	// Translation pipeline: gateway, per-item orchestrator, background runner.
	gateway := translation.New(translation.Config{
		APIKey:            cfg.TranslateAPIKey,
		BaseURL:           cfg.TranslateBaseURL,
		Timeout:           cfg.TranslateTimeout,
		RequestsPerSecond: cfg.TranslateRPS,
	})
	if !gateway.Enabled() {
		slog.Warn("GOOGLE_TRANSLATE_API_KEY not set, published content will not be translated")
	}

	policy, err := fanout.ParseDirectionPolicy(cfg.FanoutDirectionPolicy)
	if err != nil {
		slog.Error("invalid fan-out configuration", "error", err)
		os.Exit(1)
	}
	orchestrator := fanout.NewOrchestrator(contentStore, languageStore, gateway, fanout.Config{
		Delay:           cfg.FanoutDelay,
		DirectionPolicy: policy,
		OnComplete: func(ctx context.Context, report fanout.Report) {
			views.InvalidateKind(ctx, report.Kind)
		},
	}, nil)
	spawner := fanout.NewSpawner(nil)
	trigger := publish.NewTrigger(contentStore, orchestrator, spawner, views, gateway.Enabled(), nil)

	authenticator, err := auth.New(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.AdminTOTPSecret)
	if err != nil {
		slog.Error("failed to configure admin credential", "error", err)
		os.Exit(1)
	}
	if !authenticator.TOTPEnabled() {
		slog.Warn("ADMIN_TOTP_SECRET not set, admin login is password-only")
	}

	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRateLimit, time.Minute)
	defer submitLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Tokens:        tokens,
		CORSOrigins:   cfg.CORSOrigins,
		SubmitLimiter: submitLimiter,
		Health:        handlers.Health(db),
		Public:        handlers.NewPublic(projector, contentStore, languageStore, views),
		Admin:         handlers.NewAdmin(contentStore, trigger, gateway, views),
		Auth:          handlers.NewAuth(authenticator, tokens),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests and running fan-outs up to 30 seconds.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := spawner.Shutdown(shutdownCtx); err != nil {
		slog.Warn("translation fan-outs cancelled", "error", err)
	}

	slog.Info("server stopped gracefully")
}
