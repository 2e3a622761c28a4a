package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// authServer simulates the backend's bearer-token auth: requests carrying
// validToken succeed, anything else is a 401. The refresh endpoint
// exchanges validRefresh for a fresh pair.
type authServer struct {
	mu           sync.Mutex
	validToken   string
	validRefresh string
	refreshCalls int32
	apiCalls     int32
}

func (s *authServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.refreshCalls, 1)
		if r.Header.Get("Authorization") != "" {
			http.Error(w, "refresh must not carry a bearer token", http.StatusBadRequest)
			return
		}
		var in struct {
			RefreshToken string `json:"refresh_token"`
		}
		json.NewDecoder(r.Body).Decode(&in)

		s.mu.Lock()
		defer s.mu.Unlock()
		if in.RefreshToken != s.validRefresh {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "invalid refresh token"}`))
			return
		}
		s.validToken = s.validToken + "+"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  s.validToken,
			"refresh_token": s.validRefresh,
			"token_type":    "bearer",
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.apiCalls, 1)
		s.mu.Lock()
		valid := "Bearer " + s.validToken
		s.mu.Unlock()
		if r.Header.Get("Authorization") != valid {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "token expired"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	})
	return mux
}

func TestRefreshAndRetry_Succeeds(t *testing.T) {
	backend := &authServer{validToken: "fresh", validRefresh: "refresh-1"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	tm := NewMemoryTokens("expired", "refresh-1")
	c := newTestClient(t, srv.URL, WithTokenManager(tm))

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Get(context.Background(), "/projects/", nil, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !out.OK {
		t.Error("expected retried request to decode the success body")
	}
	if n := atomic.LoadInt32(&backend.refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want 1", n)
	}
	if n := atomic.LoadInt32(&backend.apiCalls); n != 2 {
		t.Errorf("api calls = %d, want original + retry", n)
	}
	if tm.AccessToken() != backend.validToken {
		t.Errorf("stored access token = %q, want refreshed token persisted", tm.AccessToken())
	}
}

func TestRefreshAndRetry_SecondUnauthorizedIsTerminal(t *testing.T) {
	// The refresh succeeds but the server keeps rejecting the API call,
	// e.g. the account was disabled. The retry's 401 must come back as
	// an error instead of looping into another refresh.
	var refreshCalls, apiCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "new-token",
			"refresh_token": "refresh-1",
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "account disabled"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTokenManager(NewMemoryTokens("expired", "refresh-1")))

	err := c.Get(context.Background(), "/projects/", nil, nil)
	if !IsAuth(err) {
		t.Fatalf("error = %v, want 401 surfaced", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", n)
	}
	if n := atomic.LoadInt32(&apiCalls); n != 2 {
		t.Errorf("api calls = %d, want original + one retry, never a loop", n)
	}
}

func TestRefreshFailure_SurfacesOriginal401AndClearsCredentials(t *testing.T) {
	var unauthenticated int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "refresh token revoked"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tm := NewMemoryTokens("expired", "revoked-refresh")
	c := newTestClient(t, srv.URL,
		WithTokenManager(tm),
		WithUnauthenticatedFunc(func() { atomic.AddInt32(&unauthenticated, 1) }),
	)

	err := c.Get(context.Background(), "/projects/", nil, nil)
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want the original 401", apiErr.Status)
	}
	if apiErr.Message != "token expired" {
		t.Errorf("Message = %q, want the original request's detail, not the refresh failure", apiErr.Message)
	}
	if tm.AccessToken() != "" || tm.RefreshToken() != "" {
		t.Error("expected stored credentials to be cleared after failed refresh")
	}
	if n := atomic.LoadInt32(&unauthenticated); n != 1 {
		t.Errorf("unauthenticated callback fired %d times, want 1", n)
	}
}

func TestNoRefreshToken_FailsFastWithoutRefreshCall(t *testing.T) {
	var refreshCalls, unauthenticated int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "not authenticated"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL,
		WithTokenManager(NewMemoryTokens("expired", "")),
		WithUnauthenticatedFunc(func() { atomic.AddInt32(&unauthenticated, 1) }),
	)

	err := c.Get(context.Background(), "/projects/", nil, nil)
	if !IsAuth(err) {
		t.Fatalf("error = %v, want 401", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 0 {
		t.Errorf("refresh calls = %d, want none without a refresh token", n)
	}
	if n := atomic.LoadInt32(&unauthenticated); n != 1 {
		t.Errorf("unauthenticated callback fired %d times, want 1", n)
	}
}

func TestNon401_NeverRefreshes(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTokenManager(NewMemoryTokens("tok", "refresh-1")))

	err := c.Get(context.Background(), "/projects/", nil, nil)
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", apiErr.Status)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 0 {
		t.Errorf("refresh calls = %d, want none for a 500", n)
	}
}

func TestTransportError_NeverRefreshes(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL,
		WithTimeout(20*time.Millisecond),
		WithTokenManager(NewMemoryTokens("tok", "refresh-1")),
	)

	err := c.Get(context.Background(), "/slow", nil, nil)
	if !IsTimeout(err) {
		t.Fatalf("error = %v, want TIMEOUT", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 0 {
		t.Errorf("refresh calls = %d, want none for a timeout", n)
	}
}

func TestConcurrent401s_CoalesceOntoOneRefresh(t *testing.T) {
	const workers = 8

	var refreshCalls int32
	arrived := make(chan struct{}, workers)
	releaseInitial := make(chan struct{})
	releaseRefresh := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// Hold the exchange open until the test is sure every worker has
		// had time to join the in-flight refresh.
		<-releaseRefresh
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "new-token",
			"refresh_token": "refresh-1",
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer new-token" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok": true}`))
			return
		}
		// Park every initial request until all workers are in flight,
		// then 401 them together.
		arrived <- struct{}{}
		<-releaseInitial
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTokenManager(NewMemoryTokens("expired", "refresh-1")))

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/projects/", nil, nil)
		}(i)
	}

	for i := 0; i < workers; i++ {
		<-arrived
	}
	close(releaseInitial)
	// Give every worker time to process its 401 and join the refresh
	// before it is allowed to settle.
	time.Sleep(100 * time.Millisecond)
	close(releaseRefresh)

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want all workers coalesced onto 1", n)
	}
}

func TestRefreshRotation_AcceptsServerRotation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "new-access",
			"refresh_token": "rotated-refresh",
		})
	})
	handled := false
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !handled {
			handled = true
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "token expired"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tm := NewMemoryTokens("expired", "refresh-1")
	c := newTestClient(t, srv.URL, WithTokenManager(tm))

	if err := c.Get(context.Background(), "/projects/", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if tm.RefreshToken() != "rotated-refresh" {
		t.Errorf("stored refresh = %q, want server rotation accepted by default", tm.RefreshToken())
	}
}

func TestRefreshRotation_Disabled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "new-access",
			"refresh_token": "rotated-refresh",
		})
	})
	handled := false
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !handled {
			handled = true
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "token expired"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tm := NewMemoryTokens("expired", "refresh-1")
	c := newTestClient(t, srv.URL,
		WithTokenManager(tm),
		WithRefreshRotation(false),
	)

	if err := c.Get(context.Background(), "/projects/", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if tm.RefreshToken() != "refresh-1" {
		t.Errorf("stored refresh = %q, want original kept with rotation disabled", tm.RefreshToken())
	}
	if tm.AccessToken() != "new-access" {
		t.Errorf("stored access = %q, want refreshed access token", tm.AccessToken())
	}
}
