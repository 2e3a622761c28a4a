package client

import (
	"context"
	"log/slog"
)

// Session is the client-observed authentication state. It is mutated
// only by the terminal outcomes of an auth attempt: success, failure,
// or in-flight.
type Session struct {
	User          *User
	Authenticated bool
	Loading       bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password, persists the returned
// token pair, and marks the session authenticated.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	c.setSession(Session{Loading: true})

	var tokens TokenResponse
	if err := c.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &tokens); err != nil {
		c.setSession(Session{})
		return nil, err
	}

	if c.tokens != nil {
		if err := c.tokens.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
			c.log.Warn("saving credentials after login", slog.String("error", err.Error()))
		}
	}
	c.SetAuthToken(tokens.AccessToken)
	c.setSession(Session{User: tokens.User, Authenticated: true})

	return &tokens, nil
}

// Logout invalidates the server-side session best-effort and clears
// local credentials regardless of the call's outcome.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Post(ctx, "/auth/logout", nil, nil)

	if c.tokens != nil {
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.log.Warn("clearing credentials on logout", slog.String("error", clearErr.Error()))
		}
	}
	c.ClearAuthToken()
	c.setSession(Session{})

	return err
}

// Me returns the current user profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ValidateSession checks stored credentials at startup. With no access
// token there is nothing to validate and any leftover refresh token is
// discarded; otherwise the profile is fetched, exercising the refresh
// path if the access token has expired.
func (c *Client) ValidateSession(ctx context.Context) (*User, error) {
	if c.bearer() == "" {
		if c.tokens != nil {
			if err := c.tokens.Clear(); err != nil {
				c.log.Warn("clearing stale credentials", slog.String("error", err.Error()))
			}
		}
		c.setSession(Session{})
		return nil, &Error{Code: "NOT_AUTHENTICATED", Message: "not logged in"}
	}

	c.setSession(Session{Loading: true})
	user, err := c.Me(ctx)
	if err != nil {
		c.setSession(Session{})
		return nil, err
	}
	c.setSession(Session{User: user, Authenticated: true})
	return user, nil
}

// Session returns a snapshot of the current auth state.
func (c *Client) Session() Session {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.session
}

func (c *Client) setSession(s Session) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.session = s
}
