package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/api"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/auth"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/platform/cache"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/platform/config"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/platform/database"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/progress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	h, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// buildApp wires storage, services and the API handler. The returned cleanup
// closes every connection opened along the way.
func buildApp(ctx context.Context, cfg *config.Config) (*api.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*api.Handler, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	policy, err := content.ParseMissingGradePolicy(cfg.Content.MissingGradePolicy)
	if err != nil {
		return fail(err)
	}

	seed, err := content.NewLoader(cfg.Content.Path)
	if err != nil {
		return fail(fmt.Errorf("loading seed catalog: %w", err))
	}

	var (
		repo          content.Repository
		users         auth.UserStore
		progressStore progress.Store
		events        progress.EventLogger = progress.NopEventLogger{}
	)

	switch cfg.Storage.Backend {
	case "postgres":
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, db.Close)

		if err := db.Migrate(ctx); err != nil {
			return fail(err)
		}
		pgRepo, err := content.NewPostgresRepository(db.Pool)
		if err != nil {
			return fail(err)
		}
		if users, err = auth.NewPostgresUserStore(db.Pool); err != nil {
			return fail(err)
		}
		if progressStore, err = progress.NewPostgresStore(db.Pool); err != nil {
			return fail(err)
		}
		events = progress.NewPostgresEventLogger(db.Pool)
		repo = pgRepo
	default:
		repo = content.NewMemoryRepository()
		users = auth.NewMemoryUserStore()
		progressStore = progress.NewMemoryStore()
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = c.Close() })
		repo = content.NewCachedRepository(repo, c, cfg.Cache.TTL)
	}

	if err := repo.Upsert(ctx, seed.All()...); err != nil {
		return fail(fmt.Errorf("seeding catalog: %w", err))
	}
	slog.Info("catalog seeded", "items", len(seed.All()), "path", cfg.Content.Path)

	authSvc, err := auth.NewService(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fail(err)
	}

	catalog := content.NewService(repo, content.NewFilter(policy, content.DefaultSimplifier()))
	h := api.New(api.Config{
		Catalog:  catalog,
		Progress: progress.NewService(progressStore, catalog).WithEventLogger(events),
		Auth:     authSvc,
		Checks:   readinessChecks(repo),
	})
	return h, cleanup, nil
}

// readinessChecks reports the catalog repository as the readiness check. A
// cached repository checks the cache and then the store behind it.
func readinessChecks(repo content.Repository) map[string]api.HealthChecker {
	checks := map[string]api.HealthChecker{}
	if hc, ok := repo.(api.HealthChecker); ok {
		checks["catalog"] = hc
	}
	return checks
}
