package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/wellness2k25/wellness-go/internal/model"
)

const (
	// DefaultTimeout bounds one login call.
	DefaultTimeout = 15 * time.Second
	// NotificationTTL is how long success and error notifications stay up.
	NotificationTTL = 2500 * time.Millisecond
	// FallbackMessage is shown when a failure carries no usable message.
	FallbackMessage = "Login failed"
)

// ErrSubmitInFlight is returned by Submit while another submission is
// still waiting for the server.
var ErrSubmitInFlight = errors.New("login already in progress")

// State is the position of a Handshake in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Destination is where a signed-in user lands.
type Destination string

const (
	DestinationAdmin   Destination = "/admin"
	DestinationAccount Destination = "/account"
)

// DestinationFor maps every role to a landing area.
func DestinationFor(role model.Role) Destination {
	switch role {
	case model.RoleAdmin:
		return DestinationAdmin
	case model.RoleStandard:
		return DestinationAccount
	}
	return DestinationAccount
}

// WelcomeMessage is the success notification for u.
func WelcomeMessage(u User) string {
	if u.Role == model.RoleAdmin {
		return "Welcome Admin " + u.Name
	}
	return "Welcome back, " + u.Name
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (Session, error)
}

// Navigator moves the user to a landing area.
type Navigator interface {
	Navigate(dest Destination)
}

// Notifier shows transient notifications that dismiss themselves after ttl.
type Notifier interface {
	Success(msg string, ttl time.Duration)
	Error(msg string, ttl time.Duration)
}

// LoginError is a failed submission. Message is what the user sees.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// FailureMessage picks the text shown for a failed login: the server's
// message, then the generic status message, then FallbackMessage.
func FailureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return FallbackMessage
}

// Handshake drives one login form. It allows a single submission at a time.
type Handshake struct {
	auth     Authenticator
	store    Store
	nav      Navigator
	notifier Notifier
	logger   *slog.Logger
	timeout  time.Duration

	mu     sync.Mutex
	state  State
	errMsg string
}

// HandshakeOption configures a Handshake.
type HandshakeOption func(*Handshake)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) HandshakeOption {
	return func(h *Handshake) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed attempts.
func WithLogger(l *slog.Logger) HandshakeOption {
	return func(h *Handshake) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandshake(auth Authenticator, store Store, nav Navigator, notifier Notifier, opts ...HandshakeOption) *Handshake {
	h := &Handshake{
		auth:     auth,
		store:    store,
		nav:      nav,
		notifier: notifier,
		logger:   slog.Default(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State returns the current state.
func (h *Handshake) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// ErrorMessage returns the inline error of the last failed submission, or
// "" once a new submission starts.
func (h *Handshake) ErrorMessage() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errMsg
}

// Submit runs one login attempt. On success the session is saved, the user
// is navigated by role and welcomed. On failure nothing is stored, the user
// stays put, and the returned *LoginError carries the message shown.
func (h *Handshake) Submit(ctx context.Context, creds Credentials) (Session, error) {
	h.mu.Lock()
	if h.state == StateSubmitting {
		h.mu.Unlock()
		return Session{}, ErrSubmitInFlight
	}
	h.state = StateSubmitting
	h.errMsg = ""
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	sess, err := h.auth.Login(ctx, creds)
	cancel()

	if err == nil {
		err = h.store.Save(sess)
	}
	if err != nil {
		return Session{}, h.fail(err)
	}

	h.mu.Lock()
	h.state = StateSuccess
	h.mu.Unlock()

	h.notifier.Success(WelcomeMessage(sess.User), NotificationTTL)
	h.nav.Navigate(DestinationFor(sess.User.Role))
	return sess, nil
}

func (h *Handshake) fail(err error) error {
	msg := FailureMessage(err)
	h.logger.Warn("login failed", "message", msg, "error", err)

	h.mu.Lock()
	h.state = StateFailed
	h.errMsg = msg
	h.mu.Unlock()

	h.notifier.Error(msg, NotificationTTL)
	return &LoginError{Message: msg, Err: err}
}
