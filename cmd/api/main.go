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

	"github.com/joho/godotenv"

	"github.com/wellness2k25/wellness-go/internal/config"
	"github.com/wellness2k25/wellness-go/internal/crypto"
	"github.com/wellness2k25/wellness-go/internal/repository"
	"github.com/wellness2k25/wellness-go/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	policy, err := cfg.OriginPolicy()
	if err != nil {
		slog.Error("invalid CORS configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("cors policy loaded", "exact", len(policy.Exact()), "patterns", len(policy.Rules()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		Logger:             logger,
		Policy:             policy,
		Hasher:             crypto.NewHasher(crypto.DefaultHashParams()),
		Tokens:             crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
		TrustProxy:         cfg.TrustProxy,
	}

	// Auth routes need the database; without it the server still answers
	// health checks.
	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, auth routes disabled", "error", err)
	} else {
		defer db.Close()
		deps.Users = repository.NewUserRepository(db)
	}

	var denylist *repository.TokenDenylist
	if cfg.RedisURL != "" {
		rdb, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis connection failed, logout will not revoke tokens", "error", err)
			denylist = repository.NewTokenDenylist(nil)
		} else {
			defer rdb.Close()
			denylist = repository.NewTokenDenylist(rdb)
		}
	} else {
		denylist = repository.NewTokenDenylist(nil)
	}
	deps.Denylist = denylist

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.NewRouter(ctx, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env, "revocation", denylist.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
