package client

import (
	"context"
	"net/http"
	"time"

	"github.com/liteauth/liteauth-be/internal/models"
)

// Session binds the cached principal summary and the bearer token
// issued at login. The client holds exactly one; it is the single
// source of truth for "who is logged in" on this side of the wire,
// and Logout drops both representations together.
type Session struct {
	Token         string
	User          models.UserSummary
	EstablishedAt time.Time
}

// Login verifies credentials with the server and, on success, installs
// the issued session. A failed login leaves any existing session
// untouched.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out struct {
		Token string             `json:"token"`
		User  models.UserSummary `json:"user"`
	}
	if err := c.post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &out); err != nil {
		return Session{}, err
	}

	session := Session{
		Token:         out.Token,
		User:          out.User,
		EstablishedAt: time.Now(),
	}
	c.sessionMu.Lock()
	c.session = &session
	c.sessionMu.Unlock()
	return session, nil
}

// Logout tears down every session representation: the locally cached
// principal and token, and the server-side cookie. Idempotent; calling
// it without a session is a success. The local cache is dropped even
// when the server round trip fails, so a client never keeps acting on
// a session it asked to end.
func (c *Client) Logout(ctx context.Context) error {
	c.sessionMu.Lock()
	c.session = nil
	c.sessionMu.Unlock()

	return c.post(ctx, "/auth/logout", struct{}{}, nil)
}

// Session returns the current session, if any.
func (c *Client) Session() (Session, bool) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// authorize attaches the session token as a bearer credential.
func (c *Client) authorize(req *http.Request) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
}
