// Package server assembles the HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wellness2k25/wellness-go/internal/crypto"
	"github.com/wellness2k25/wellness-go/internal/handler"
	"github.com/wellness2k25/wellness-go/internal/middleware"
	"github.com/wellness2k25/wellness-go/internal/model"
	"github.com/wellness2k25/wellness-go/internal/origin"
	"github.com/wellness2k25/wellness-go/internal/service"
)

// TokenDenylist revokes tokens at logout and rejects them afterwards.
type TokenDenylist interface {
	middleware.Denylist
	service.Revoker
}

// Deps are the collaborators of the router. Users may be nil, in which case
// only the public routes are registered.
type Deps struct {
	Logger   *slog.Logger
	Policy   *origin.Policy
	Users    service.UserStore
	Hasher   *crypto.Hasher
	Tokens   *crypto.TokenIssuer
	Denylist TokenDenylist

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Only set it behind a proxy that overwrites those headers, since the
	// auth rate limit is keyed on that address.
	TrustProxy bool
}

// NewRouter builds the API router. ctx bounds background work such as rate
// limiter cleanup.
func NewRouter(ctx context.Context, deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := deps.Policy
	if policy == nil {
		policy = origin.DefaultPolicy()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(policy, logger))
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/api/health", handler.HandleHealth)
	r.Get("/api/test", handler.HandleTest)

	if deps.Users == nil {
		logger.Warn("no user store configured, auth and user routes disabled")
		return r
	}

	var revoker service.Revoker
	var denylist middleware.Denylist
	if deps.Denylist != nil {
		revoker, denylist = deps.Denylist, deps.Denylist
	}

	authHandler := handler.NewAuthHandler(service.NewAuthService(deps.Users, deps.Hasher, deps.Tokens, revoker))
	userService := service.NewUserService(deps.Users)
	userHandler := handler.NewUserHandler(userService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, deps.AuthRateLimitRPS, deps.AuthRateLimitBurst))
		r.Post("/api/auth/register", authHandler.HandleRegister)
		r.Post("/api/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(deps.Tokens, denylist))
		r.Use(middleware.RefreshRole(roleSource{userService}))
		r.Get("/api/auth/me", authHandler.HandleMe)
		r.Post("/api/auth/logout", authHandler.HandleLogout)
		r.Get("/api/users/{id}", userHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Get("/api/users", userHandler.HandleList)
			r.Put("/api/users/{id}/role", userHandler.HandleSetRole)
		})
	})

	return r
}

// roleSource adapts UserService to middleware.RoleSource.
type roleSource struct {
	users *service.UserService
}

func (s roleSource) CurrentRole(ctx context.Context, userID int64) (model.Role, error) {
	role, err := s.users.CurrentRole(ctx, userID)
	if errors.Is(err, service.ErrUserNotFound) {
		return "", middleware.ErrUnknownUser
	}
	return role, err
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Message: msg})
}
