package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/staybook/internal/domain"
	"github.com/msomdec/staybook/internal/handler"
	"github.com/msomdec/staybook/internal/remote"
	"github.com/msomdec/staybook/internal/repository/redis"
	"github.com/msomdec/staybook/internal/repository/sqlite"
	"github.com/msomdec/staybook/internal/service"
)

// tokenBackend is a token repository that can report its health.
type tokenBackend interface {
	domain.TokenRepository
	handler.Pinger
}

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	keys, err := service.DeriveKeys(cfg.SessionSecret)
	if err != nil {
		slog.Error("derive session keys", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tokens tokenBackend
	switch cfg.TokenBackend {
	case "redis":
		client, err := redis.Open(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		tokens = redis.NewTokenRepository(client, cfg.TokenTTL)
		slog.Info("token store ready", "backend", "redis", "addr", cfg.RedisAddr)
	default:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("database migrations applied")

		repo := db.Tokens().WithTTL(cfg.TokenTTL)
		go repo.RunPurger(ctx, time.Hour)
		tokens = sqliteBackend{repo, db}
		slog.Info("token store ready", "backend", "sqlite", "path", cfg.DatabasePath)
	}

	vault, err := service.NewTokenVault(tokens, keys.Vault)
	if err != nil {
		slog.Error("create token vault", "error", err)
		os.Exit(1)
	}

	api := remote.New(cfg.APIURL, remote.WithTimeout(cfg.APITimeout))

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:     api,
		Listings: api,
		AssetURL: api.AssetURL,
		Browsers: service.NewBrowserSessions(keys.Cookie, cfg.TokenTTL),
		Slots: func(browserID string) domain.TokenStore {
			return vault.Slot(browserID)
		},
		Limiter:      service.NewTokenBucket(ctx, cfg.LoginRate, cfg.LoginBurst),
		Ready:        tokens,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "api", cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// sqliteBackend pairs the token repository with its database for health checks.
type sqliteBackend struct {
	*sqlite.TokenRepository
	db *sqlite.DB
}

func (b sqliteBackend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}
