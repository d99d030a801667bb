package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wellness2k25/wellness-go/internal/crypto"
	"github.com/wellness2k25/wellness-go/internal/model"
)

type contextKey string

const claimsKey contextKey = "claims"

// Denylist reports tokens revoked before their expiry.
type Denylist interface {
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// JWTAuth returns middleware that validates a Bearer token from the
// Authorization header and stores its claims in the request context.
func JWTAuth(tokens *crypto.TokenIssuer, denylist Denylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if denylist != nil {
				revoked, err := denylist.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					slog.Error("token denylist lookup failed", "error", err)
					writeJSONError(w, http.StatusServiceUnavailable, "session check unavailable")
					return
				}
				if revoked {
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleSource reports the stored role of a user. It returns an error
// matching ErrUnknownUser when the user no longer exists.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID int64) (model.Role, error)
}

var ErrUnknownUser = errors.New("unknown user")

// RefreshRole replaces the role carried by the token with the user's stored
// role, so role changes apply to tokens issued before them. It must run
// after JWTAuth.
func RefreshRole(roles RoleSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			role, err := roles.CurrentRole(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, ErrUnknownUser) {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				slog.ErrorContext(r.Context(), "role lookup failed", "user_id", claims.UserID, "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if role != claims.Role {
				fresh := *claims
				fresh.Role = role
				claims = &fresh
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects authenticated requests whose role is not role.
// It must run after JWTAuth.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if claims.Role != role {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext extracts the authenticated token claims from ctx.
func ClaimsFromContext(ctx context.Context) (*crypto.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return claims, ok
}

// UserIDFromContext extracts the authenticated user ID from ctx.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *crypto.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Message: msg})
}
