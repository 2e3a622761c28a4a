package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	c, err := New(serverURL, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path", "localhost:8000"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) expected error, got nil", raw)
		}
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000/api/v1/")
	if got := c.BaseURL(); got != "http://localhost:8000/api/v1" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", got)
	}
}

func TestGet_DecodesBareJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q, want application/json", r.Header.Get("Accept"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header to be set")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 7, "title": "dotfiles"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	var out struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	if err := c.Get(context.Background(), "/projects/7", nil, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out.ID != 7 || out.Title != "dotfiles" {
		t.Errorf("decoded %+v, want id=7 title=dotfiles", out)
	}
}

func TestGet_UnwrapsSuccessEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"id": 3}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.Get(context.Background(), "/notes/3", nil, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out.ID != 3 {
		t.Errorf("decoded id = %d, want 3", out.ID)
	}
}

func TestGet_EnvelopeFailureOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": {"code": "QUOTA_EXCEEDED", "message": "storage quota exceeded", "details": {"limit_mb": 500}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.Get(context.Background(), "/media/", nil, nil)
	if err == nil {
		t.Fatal("expected error for success:false envelope")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Code != "QUOTA_EXCEEDED" {
		t.Errorf("Code = %q, want QUOTA_EXCEEDED", apiErr.Code)
	}
	if apiErr.Message != "storage quota exceeded" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["limit_mb"] != float64(500) {
		t.Errorf("Details = %v, want limit_mb preserved", apiErr.Details)
	}
}

func TestGet_QueryParameters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	q := url.Values{}
	q.Set("status", "active")
	q.Set("page", "2")
	var out []json.RawMessage
	if err := c.Get(context.Background(), "/projects/", q, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if gotQuery.Get("status") != "active" || gotQuery.Get("page") != "2" {
		t.Errorf("server saw query %v", gotQuery)
	}
}

func TestPost_SendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	in := map[string]string{"title": "hello"}
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.Post(context.Background(), "/notes/", in, &out); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody["title"] != "hello" {
		t.Errorf("server saw body %v", gotBody)
	}
	if out.ID != 1 {
		t.Errorf("decoded id = %d, want 1", out.ID)
	}
}

func TestDelete_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Delete(context.Background(), "/notes/9"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}

func TestDecode_NonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	var out string
	if err := c.Get(context.Background(), "/health", nil, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out != "pong" {
		t.Errorf("raw body = %q, want pong", out)
	}
}

func TestDecode_MalformedJSONIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 7,`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.Get(context.Background(), "/projects/7", nil, &struct{}{})
	if !IsNetwork(err) {
		t.Fatalf("error = %v, want NETWORK_ERROR for truncated JSON", err)
	}
}

func TestFailure_PlainStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.Get(context.Background(), "/projects/999", nil, nil)
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want 404", err)
	}
	apiErr := err.(*Error)
	if apiErr.Code != "HTTP_404" {
		t.Errorf("Code = %q, want HTTP_404", apiErr.Code)
	}
}

func TestFailure_DetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "title must not be empty"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.Post(context.Background(), "/projects/", map[string]string{}, nil)
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", apiErr.Status)
	}
	if apiErr.Message != "title must not be empty" {
		t.Errorf("Message = %q, want server detail", apiErr.Message)
	}
}

func TestFailure_EnvelopeErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success": false, "error": {"code": "SLUG_TAKEN", "message": "slug already in use"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.Post(context.Background(), "/projects/", map[string]string{"slug": "dotfiles"}, nil)
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Code != "SLUG_TAKEN" {
		t.Errorf("Code = %q, want server-supplied code", apiErr.Code)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("Status = %d, want 409", apiErr.Status)
	}
}

func TestTimeout_Classified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTimeout(20*time.Millisecond))

	err := c.Get(context.Background(), "/slow", nil, nil)
	if !IsTimeout(err) {
		t.Fatalf("error = %v, want TIMEOUT", err)
	}
	apiErr := err.(*Error)
	if apiErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failure", apiErr.Status)
	}
}

func TestNetworkError_Classified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	c := newTestClient(t, target)

	err := c.Get(context.Background(), "/anything", nil, nil)
	if !IsNetwork(err) {
		t.Fatalf("error = %v, want NETWORK_ERROR for refused connection", err)
	}
}

func TestDefaultHeadersAndBearer(t *testing.T) {
	var gotAuth, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCustom = r.Header.Get("X-Client-Version")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL,
		WithAuthToken("tok-123"),
		WithHeader("X-Client-Version", "1.2.0"),
	)

	if err := c.Get(context.Background(), "/auth/me", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotCustom != "1.2.0" {
		t.Errorf("X-Client-Version = %q", gotCustom)
	}
}

func TestClearAuthToken_DropsAuthorizationHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithAuthToken("tok-123"))
	c.ClearAuthToken()

	if err := c.Get(context.Background(), "/projects/", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if sawAuth {
		t.Error("expected no Authorization header after ClearAuthToken")
	}
}

func TestNew_HydratesTokenFromManager(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tm := NewMemoryTokens("stored-access", "stored-refresh")
	c := newTestClient(t, srv.URL, WithTokenManager(tm))

	if err := c.Get(context.Background(), "/auth/me", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if gotAuth != "Bearer stored-access" {
		t.Errorf("Authorization = %q, want token hydrated from manager", gotAuth)
	}
}

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"enveloped success", `{"success": true, "data": {}}`, true},
		{"enveloped failure", `{"success": false, "error": {"code": "X", "message": "y"}}`, true},
		{"bare object", `{"id": 1}`, false},
		{"bare array", `[1, 2, 3]`, false},
		{"bare string", `"ok"`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseEnvelope([]byte(tt.body))
			if ok != tt.want {
				t.Errorf("parseEnvelope(%q) = %v, want %v", tt.body, ok, tt.want)
			}
		})
	}
}
