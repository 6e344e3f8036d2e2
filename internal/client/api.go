package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/liteauth/liteauth-be/internal/availability"
	"github.com/liteauth/liteauth-be/internal/models"
	"github.com/liteauth/liteauth-be/internal/services"
)

// Client talks to the LiteAuth HTTP API and caches the one logged-in
// session. See session.go for the source-of-truth rules.
type Client struct {
	baseURL string
	http    *http.Client

	sessionMu sync.Mutex
	session   *Session
}

// New creates a client for the API rooted at baseURL
// (e.g. "http://localhost:8080/api/v1").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type checkResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) put(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError maps an HTTP failure onto the service error taxonomy so
// callers can errors.Is against the same sentinels the server uses.
func apiError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}
	switch resp.StatusCode {
	case http.StatusConflict:
		return services.ErrConflict
	case http.StatusUnauthorized:
		return services.ErrInvalidCredentials
	case http.StatusForbidden:
		return services.ErrForbidden
	case http.StatusNotFound:
		return services.ErrNotFound
	case http.StatusBadRequest:
		return &services.ValidationError{Field: "form", Message: msg}
	default:
		return fmt.Errorf("api: %s", msg)
	}
}

// CheckUsername asks whether a username is free to register.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, string, error) {
	var out checkResponse
	err := c.post(ctx, "/auth/check-username", map[string]string{"username": username}, &out)
	if err != nil {
		return false, "", err
	}
	return out.Available, out.Message, nil
}

// CheckEmail asks whether an email is free to register.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, string, error) {
	var out checkResponse
	err := c.post(ctx, "/auth/check-email", map[string]string{"email": email}, &out)
	if err != nil {
		return false, "", err
	}
	return out.Available, out.Message, nil
}

// CheckPassword reports whether the password matches the account's
// stored credential.
func (c *Client) CheckPassword(ctx context.Context, email, password string) (bool, string, error) {
	var out checkResponse
	err := c.post(ctx, "/auth/check-password", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return false, "", err
	}
	return out.Available, out.Message, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, input services.RegisterInput) (models.UserSummary, error) {
	var out struct {
		Message string             `json:"message"`
		User    models.UserSummary `json:"user"`
	}
	if err := c.post(ctx, "/auth/register", input, &out); err != nil {
		return models.UserSummary{}, err
	}
	return out.User, nil
}

// Users lists every account. Requires an admin session.
func (c *Client) Users(ctx context.Context) ([]models.UserSummary, error) {
	var out struct {
		Users []models.UserSummary `json:"users"`
	}
	if err := c.get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// UpdateUserRole sets another user's role. Requires an admin session.
func (c *Client) UpdateUserRole(ctx context.Context, id, role string) (models.UserSummary, error) {
	var out struct {
		Message string             `json:"message"`
		User    models.UserSummary `json:"user"`
	}
	if err := c.put(ctx, "/users", map[string]string{"id": id, "role": role}, &out); err != nil {
		return models.UserSummary{}, err
	}
	return out.User, nil
}

// Me fetches the principal behind the current session token.
func (c *Client) Me(ctx context.Context) (models.UserSummary, error) {
	var out models.UserSummary
	if err := c.get(ctx, "/users/me", &out); err != nil {
		return models.UserSummary{}, err
	}
	return out, nil
}

// Lookup adapts the availability endpoints to the checker's contract.
// A transport failure propagates as an error, which the checker
// reports as unknown rather than as an answer.
func (c *Client) Lookup() availability.LookupFunc {
	return func(ctx context.Context, field, value string) (bool, string, error) {
		switch field {
		case "email":
			return c.CheckEmail(ctx, value)
		default:
			return c.CheckUsername(ctx, value)
		}
	}
}

// NewRegistrationForm builds a form session backed by this client's
// availability endpoints and registration call.
func (c *Client) NewRegistrationForm() *Form {
	return NewForm(c.Lookup(), c.Register, availability.DefaultDebounce, availability.DefaultTimeout)
}
