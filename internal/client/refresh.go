package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// errNoRefreshToken means a 401 arrived with nothing to exchange, so the
// refresh fails fast without a network call.
var errNoRefreshToken = fmt.Errorf("no refresh token available")

// refreshAccessToken exchanges the stored refresh token for a new access
// token. Concurrent callers coalesce onto a single in-flight exchange:
// the first 401 starts it, later 401s wait on the same outcome, and the
// handle clears once it settles. On any failure the stored credentials
// are wiped before waiters resume, so other in-flight requests that hit
// a 401 afterwards fail fast instead of refreshing again.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	_, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		var refresh string
		if c.tokens != nil {
			refresh = c.tokens.RefreshToken()
		}
		if refresh == "" {
			c.invalidateSession()
			return nil, errNoRefreshToken
		}

		body, err := json.Marshal(refreshRequest{RefreshToken: refresh})
		if err != nil {
			c.invalidateSession()
			return nil, fmt.Errorf("encoding refresh request: %w", err)
		}

		// The refresh call carries no bearer token: the expired access
		// token is what got us here.
		resp, sendErr := c.send(ctx, &request{
			method:      http.MethodPost,
			path:        "/auth/refresh",
			body:        body,
			contentType: "application/json",
		}, "")
		if sendErr != nil {
			c.invalidateSession()
			return nil, sendErr
		}

		var tokens TokenResponse
		if decodeErr := c.decode(resp, &tokens); decodeErr != nil {
			c.invalidateSession()
			return nil, decodeErr
		}
		if tokens.AccessToken == "" {
			c.invalidateSession()
			return nil, fmt.Errorf("refresh response carried no access token")
		}

		next := refresh
		if c.rotateRefresh && tokens.RefreshToken != "" {
			next = tokens.RefreshToken
		}
		if c.tokens != nil {
			if saveErr := c.tokens.SetTokens(tokens.AccessToken, next); saveErr != nil {
				c.log.Warn("saving refreshed tokens", slog.String("error", saveErr.Error()))
			}
		}
		c.SetAuthToken(tokens.AccessToken)

		c.log.Debug("access token refreshed")
		return nil, nil
	})

	if shared {
		c.log.Debug("joined in-flight token refresh")
	}
	return err
}

// invalidateSession wipes credentials and notifies the application layer.
// It runs inside the coalesced refresh, so the callback fires once per
// failed refresh no matter how many requests were waiting.
func (c *Client) invalidateSession() {
	if c.tokens != nil {
		if err := c.tokens.Clear(); err != nil {
			c.log.Warn("clearing stored credentials", slog.String("error", err.Error()))
		}
	}
	c.ClearAuthToken()
	c.setSession(Session{})
	if c.onUnauthenticated != nil {
		c.onUnauthenticated()
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
