package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/wellness2k25/wellness-go/internal/crypto"
	"github.com/wellness2k25/wellness-go/internal/model"
	"github.com/wellness2k25/wellness-go/internal/repository"
)

const minPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email already taken")
)

// UserStore is the user persistence the services depend on.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id int64, role model.Role) error
	UpdateAuthHash(ctx context.Context, id int64, hash string) error
}

// Revoker invalidates issued tokens before they expire.
type Revoker interface {
	Revoke(ctx context.Context, id string, until time.Time) error
}

// AuthService handles authentication business logic.
type AuthService struct {
	users   UserStore
	hasher  *crypto.Hasher
	tokens  *crypto.TokenIssuer
	revoker Revoker
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *crypto.Hasher, tokens *crypto.TokenIssuer, revoker Revoker) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
	}
}

// Register creates a standard account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	switch {
	case name == "":
		return model.AuthResponse{}, ErrNameRequired
	case email == "":
		return model.AuthResponse{}, ErrEmailRequired
	case !validEmail(email):
		return model.AuthResponse{}, ErrEmailInvalid
	case req.Password == "":
		return model.AuthResponse{}, ErrPasswordRequired
	case len(req.Password) < minPasswordLength:
		return model.AuthResponse{}, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Name:      name,
		Email:     email,
		AuthHash:  hash,
		Role:      model.RoleStandard,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	return s.session(user)
}

// Login verifies credentials and returns a token plus the user profile.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.AuthHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.AuthHash) {
		s.rehash(ctx, user, req.Password)
	}

	return s.session(user)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return model.NewUserResponse(user), nil
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims *crypto.Claims) error {
	if s.revoker == nil {
		return nil
	}
	var until time.Time
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.revoker.Revoke(ctx, claims.ID, until)
}

// rehash upgrades a stored hash to the current parameters. Failure only
// costs the upgrade, so the login still succeeds.
func (s *AuthService) rehash(ctx context.Context, user *model.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.users.UpdateAuthHash(ctx, user.ID, hash)
	}
	if err != nil {
		slog.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	user.AuthHash = hash
}

func (s *AuthService) session(user *model.User) (model.AuthResponse, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		Token: token,
		User:  model.NewUserResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
