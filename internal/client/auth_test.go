package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin_PersistsTokensAndSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		if in.Email != "dev@folionote.dev" || in.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "bearer",
			"user":          map[string]any{"id": 1, "email": in.Email},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tm := NewMemoryTokens("", "")
	c := newTestClient(t, srv.URL, WithTokenManager(tm))

	tokens, err := c.Login(context.Background(), "dev@folionote.dev", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tokens.AccessToken != "access-1" {
		t.Errorf("AccessToken = %q", tokens.AccessToken)
	}
	if tm.AccessToken() != "access-1" || tm.RefreshToken() != "refresh-1" {
		t.Error("expected token pair persisted to the manager")
	}
	sess := c.Session()
	if !sess.Authenticated || sess.Loading {
		t.Errorf("session = %+v, want authenticated", sess)
	}
	if sess.User == nil || sess.User.Email != "dev@folionote.dev" {
		t.Errorf("session user = %+v", sess.User)
	}
}

func TestLogin_FailureResetsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid credentials"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	if _, err := c.Login(context.Background(), "dev@folionote.dev", "wrong"); !IsAuth(err) {
		t.Fatalf("error = %v, want 401", err)
	}
	sess := c.Session()
	if sess.Authenticated || sess.Loading {
		t.Errorf("session = %+v, want reset after failed login", sess)
	}
}

func TestLogout_ClearsLocalStateEvenWhenServerFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tm := NewMemoryTokens("access-1", "refresh-1")
	c := newTestClient(t, srv.URL, WithTokenManager(tm))

	if err := c.Logout(context.Background()); err == nil {
		t.Error("expected server failure to be reported")
	}
	if tm.AccessToken() != "" || tm.RefreshToken() != "" {
		t.Error("expected local credentials cleared despite server failure")
	}
	if c.Session().Authenticated {
		t.Error("expected session reset after logout")
	}
}

func TestValidateSession_NoToken(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	// A leftover refresh token with no access token is stale state from
	// a partial write; validation discards it rather than trusting it.
	tm := NewMemoryTokens("", "leftover-refresh")
	c := newTestClient(t, srv.URL, WithTokenManager(tm))

	_, err := c.ValidateSession(context.Background())
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Code != "NOT_AUTHENTICATED" {
		t.Fatalf("error = %v, want NOT_AUTHENTICATED", err)
	}
	if calls != 0 {
		t.Errorf("server saw %d calls, want none without an access token", calls)
	}
	if tm.RefreshToken() != "" {
		t.Error("expected leftover refresh token discarded")
	}
}

func TestValidateSession_FetchesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("path = %s, want /auth/me", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "email": "dev@folionote.dev", "name": "Dev"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTokenManager(NewMemoryTokens("access-1", "refresh-1")))

	user, err := c.ValidateSession(context.Background())
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if user.Email != "dev@folionote.dev" {
		t.Errorf("user = %+v", user)
	}
	if !c.Session().Authenticated {
		t.Error("expected session marked authenticated")
	}
}
