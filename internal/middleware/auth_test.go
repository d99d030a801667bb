package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellness2k25/wellness-go/internal/crypto"
	"github.com/wellness2k25/wellness-go/internal/model"
)

type stubDenylist struct {
	revoked map[string]bool
	err     error
}

func (s stubDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], s.err
}

func issue(t *testing.T, tokens *crypto.TokenIssuer, role model.Role) (string, *crypto.Claims) {
	t.Helper()
	token, claims, err := tokens.Issue(&model.User{ID: 7, Email: "a@x.com", Role: role})
	require.NoError(t, err)
	return token, claims
}

func TestJWTAuth(t *testing.T) {
	tokens := crypto.NewTokenIssuer("test-secret", time.Hour)
	good, goodClaims := issue(t, tokens, model.RoleStandard)
	revokedToken, revokedClaims := issue(t, tokens, model.RoleStandard)
	denylist := stubDenylist{revoked: map[string]bool{revokedClaims.ID: true}}

	tests := []struct {
		name       string
		header     string
		denylist   Denylist
		wantStatus int
	}{
		{"valid token", "Bearer " + good, denylist, http.StatusOK},
		{"valid token without denylist", "Bearer " + good, nil, http.StatusOK},
		{"missing header", "", denylist, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, denylist, http.StatusUnauthorized},
		{"empty token", "Bearer ", denylist, http.StatusUnauthorized},
		{"garbage token", "Bearer abc", denylist, http.StatusUnauthorized},
		{"revoked token", "Bearer " + revokedToken, denylist, http.StatusUnauthorized},
		{"denylist down", "Bearer " + good, stubDenylist{err: errors.New("down")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			JWTAuth(tokens, tt.denylist)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, goodClaims.UserID, gotID)
			} else {
				assert.Contains(t, rec.Body.String(), `"message"`)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireRole(model.RoleAdmin)(ok)

	tests := []struct {
		name   string
		claims *crypto.Claims
		want   int
	}{
		{"admin", &crypto.Claims{UserID: 1, Role: model.RoleAdmin}, http.StatusOK},
		{"standard", &crypto.Claims{UserID: 2, Role: model.RoleStandard}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

type roleTable map[int64]model.Role

func (t roleTable) CurrentRole(_ context.Context, id int64) (model.Role, error) {
	if id < 0 {
		return "", errors.New("db down")
	}
	role, ok := t[id]
	if !ok {
		return "", ErrUnknownUser
	}
	return role, nil
}

func TestRefreshRole(t *testing.T) {
	roles := roleTable{1: model.RoleStandard, 2: model.RoleAdmin}
	admin := RefreshRole(roles)(RequireRole(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	tests := []struct {
		name   string
		claims *crypto.Claims
		want   int
	}{
		{"demoted admin token", &crypto.Claims{UserID: 1, Role: model.RoleAdmin}, http.StatusForbidden},
		{"promoted standard token", &crypto.Claims{UserID: 2, Role: model.RoleStandard}, http.StatusOK},
		{"deleted user", &crypto.Claims{UserID: 9, Role: model.RoleAdmin}, http.StatusUnauthorized},
		{"lookup failure", &crypto.Claims{UserID: -1, Role: model.RoleAdmin}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req = req.WithContext(WithClaims(req.Context(), tt.claims))
			rec := httptest.NewRecorder()
			admin.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	original := &crypto.Claims{UserID: 1, Role: model.RoleAdmin}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	admin.ServeHTTP(httptest.NewRecorder(), req.WithContext(WithClaims(req.Context(), original)))
	assert.Equal(t, model.RoleAdmin, original.Role, "token claims must not be mutated")
}
