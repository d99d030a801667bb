// Package client is the caller side of the authentication handshake: an
// HTTP client for the auth endpoints, session persistence, and the login
// state machine driven by a form.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wellness2k25/wellness-go/internal/model"
)

const maxErrorBody = 64 << 10

// ErrMalformedResponse is returned for a successful status whose body lacks
// a token or a user.
var ErrMalformedResponse = errors.New("malformed login response")

// APIError is a non-2xx response.
type APIError struct {
	Status int
	// Message is the server-supplied message, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status code %d", e.Status)
}

// Credentials are the two fields of the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the profile returned with a session.
type User struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"user_role"`
}

type wireUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"user_role"`
}

func (w wireUser) user() User {
	return User{ID: w.ID, Name: w.Name, Email: w.Email, Role: model.RoleOf(w.Role)}
}

// API calls the Wellness auth endpoints.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI creates an API client for baseURL. A nil httpClient gets a client
// with a 30 second timeout.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Login posts credentials to /api/auth/login.
func (a *API) Login(ctx context.Context, creds Credentials) (Session, error) {
	resp, err := a.do(ctx, http.MethodPost, "/api/auth/login", "", creds)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Session{}, err
	}

	var body struct {
		Token string    `json:"token"`
		User  *wireUser `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Token == "" || body.User == nil {
		return Session{}, ErrMalformedResponse
	}

	return Session{Token: body.Token, User: body.User.user()}, nil
}

// Me fetches the profile behind token.
func (a *API) Me(ctx context.Context, token string) (User, error) {
	resp, err := a.do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return User{}, err
	}

	var u wireUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return User{}, fmt.Errorf("decode profile: %w", err)
	}
	return u.user(), nil
}

// Logout revokes token on the server.
func (a *API) Logout(ctx context.Context, token string) error {
	resp, err := a.do(ctx, http.MethodPost, "/api/auth/logout", token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (a *API) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// checkStatus turns a non-2xx response into an *APIError, taking the
// message from a JSON "message" field and then an "error" field.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
