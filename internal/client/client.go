package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 30 * time.Second

// Client performs HTTP calls against a single configured base URL with
// consistent header injection, timeout enforcement, response unwrapping,
// and automatic token refresh on 401 responses.
//
// A logical request may generate up to three network calls: the original,
// one token refresh, and one retry. Concurrent 401s coalesce onto a single
// in-flight refresh so the server never sees competing refresh calls.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger

	tokens            TokenManager
	onUnauthenticated func()
	rotateRefresh     bool

	mu        sync.RWMutex
	headers   http.Header
	authToken string

	sessionMu sync.RWMutex
	session   Session

	refreshGroup singleflight.Group
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the default 30s per-request timeout. Each of the
// three network calls of a logical request is bounded independently.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. The configured
// timeout is preserved unless the provided client sets its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Timeout == 0 {
			hc.Timeout = c.http.Timeout
		}
		c.http = hc
	}
}

// WithHeader adds a default header sent on every request. Per-call
// headers are not supported; the backend contract does not need them.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithAuthToken seeds the bearer token attached to requests.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithTokenManager wires durable credential storage. The client reads
// the refresh token from the manager when a 401 arrives and writes the
// refreshed pair back on success.
func WithTokenManager(tm TokenManager) Option {
	return func(c *Client) {
		c.tokens = tm
	}
}

// WithUnauthenticatedFunc registers a callback fired once whenever the
// session becomes unrecoverable (refresh failed or no refresh token).
// The application layer decides how to react; the client only reports.
func WithUnauthenticatedFunc(fn func()) Option {
	return func(c *Client) {
		c.onUnauthenticated = fn
	}
}

// WithRefreshRotation controls whether a refresh token returned by the
// refresh endpoint replaces the stored one. The backend echoes the
// existing token today, so the default is to accept rotation when the
// server performs it.
func WithRefreshRotation(enabled bool) Option {
	return func(c *Client) {
		c.rotateRefresh = enabled
	}
}

// New creates a client for the given base URL. Configuration is applied
// once here and is immutable afterwards, except for the auth token.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: defaultTimeout},
		log:           slog.Default().With(slog.String("component", "api_client")),
		headers:       make(http.Header),
		rotateRefresh: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Hydrate the bearer token from durable storage so a fresh process
	// picks up where the last one left off.
	if c.authToken == "" && c.tokens != nil {
		c.authToken = c.tokens.AccessToken()
	}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthToken replaces the bearer token attached to all subsequent
// requests. In-flight requests are unaffected.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// ClearAuthToken removes the bearer token; subsequent requests carry
// no Authorization header.
func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// Get issues a GET request and decodes the unwrapped payload into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, &request{method: http.MethodGet, path: path, query: query}, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	r, err := jsonRequest(http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	r, err := jsonRequest(http.MethodPut, path, body)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	r, err := jsonRequest(http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, &request{method: http.MethodDelete, path: path}, nil)
}

// Upload issues a multipart POST. The multipart writer supplies the
// Content-Type with its boundary; no JSON serialization happens here.
func (c *Client) Upload(ctx context.Context, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return &Error{Code: CodeNetwork, Message: fmt.Sprintf("encoding multipart form: %v", err)}
	}
	return c.do(ctx, &request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: contentType,
	}, out)
}

// request is an immutable descriptor of one logical request. The body is
// pre-serialized so the retry after a refresh rebuilds the HTTP request
// from scratch with the new Authorization header.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(method, path string, body any) (*request, error) {
	r := &request{method: method, path: path}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Code: CodeNetwork, Message: fmt.Sprintf("encoding request body: %v", err)}
		}
		r.body = data
		r.contentType = "application/json"
	}
	return r, nil
}

// response is the raw result of one network call, buffered so it can be
// inspected more than once.
type response struct {
	status int
	header http.Header
	body   []byte
}

// do runs the refresh-and-retry protocol for one logical request.
// Transport failures and non-401 statuses are terminal. A 401 triggers
// exactly one refresh and one retry; the retry's outcome is terminal
// regardless, so a second 401 can never loop.
func (c *Client) do(ctx context.Context, r *request, out any) error {
	resp, err := c.send(ctx, r, c.bearer())
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized {
		if refreshErr := c.refreshAccessToken(ctx); refreshErr != nil {
			c.log.Debug("token refresh failed", slog.String("path", r.path), slog.String("error", refreshErr.Error()))
			// Surface the original 401, not the refresh failure.
			return c.failure(resp)
		}
		c.log.Debug("token refreshed, retrying request", slog.String("path", r.path))
		resp, err = c.send(ctx, r, c.bearer())
		if err != nil {
			return err
		}
	}

	return c.decode(resp, out)
}

// send performs a single network call. Every failure is normalized; the
// caller never sees a raw transport error.
func (c *Client) send(ctx context.Context, r *request, bearer string) (*response, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, &Error{Code: CodeNetwork, Message: fmt.Sprintf("building request: %v", err)}
	}

	c.mu.RLock()
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	c.mu.RUnlock()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: CodeNetwork, Message: fmt.Sprintf("reading response body: %v", err)}
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// transportError classifies a failure that never produced a response.
func transportError(err error) *Error {
	var netErr interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	default:
		return &Error{Code: CodeNetwork, Message: fmt.Sprintf("request failed: %v", err)}
	}
}

// envelope is the inconsistently-applied {success, data, error} response
// wrapping convention. Success is a pointer so its absence distinguishes
// a bare JSON body from an enveloped one.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *wireError      `json:"error"`
}

type wireError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// decode unwraps a buffered response. 2xx bodies are returned through
// out; everything else is normalized into *Error.
func (c *Client) decode(resp *response, out any) error {
	if resp.status < 200 || resp.status > 299 {
		return c.failure(resp)
	}

	if resp.status == http.StatusNoContent || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}

	if !isJSON(resp.header) {
		// Non-JSON success bodies are handed back as raw text.
		if sp, ok := out.(*string); ok {
			*sp = string(resp.body)
		}
		return nil
	}

	if !json.Valid(resp.body) {
		return &Error{Code: CodeNetwork, Message: "malformed JSON response", Status: resp.status}
	}

	payload := resp.body
	if env, ok := parseEnvelope(resp.body); ok {
		if env.Success != nil && !*env.Success {
			return envelopeError(env.Error, resp.status)
		}
		payload = env.Data
	}

	if out == nil || len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Code: CodeNetwork, Message: fmt.Sprintf("decoding response: %v", err), Status: resp.status}
	}
	return nil
}

// parseEnvelope reports whether the body uses the {success, data, error}
// convention. Bodies that are valid JSON but not envelopes pass through.
func parseEnvelope(body []byte) (*envelope, bool) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if env.Success == nil {
		return nil, false
	}
	return &env, true
}

// failure normalizes a non-2xx response, preferring the server's own
// error code and message when the body carries one.
func (c *Client) failure(resp *response) *Error {
	if isJSON(resp.header) && json.Valid(resp.body) {
		if env, ok := parseEnvelope(resp.body); ok && env.Error != nil {
			return envelopeError(env.Error, resp.status)
		}
		// FastAPI-style {"detail": "..."} bodies.
		var fallback struct {
			Detail any `json:"detail"`
		}
		if err := json.Unmarshal(resp.body, &fallback); err == nil {
			if msg, ok := fallback.Detail.(string); ok && msg != "" {
				return &Error{Code: httpCode(resp.status), Message: msg, Status: resp.status}
			}
		}
	}
	return &Error{
		Code:    httpCode(resp.status),
		Message: http.StatusText(resp.status),
		Status:  resp.status,
	}
}

func envelopeError(we *wireError, status int) *Error {
	apiErr := &Error{Code: httpCode(status), Message: http.StatusText(status), Status: status}
	if we != nil {
		if we.Code != "" {
			apiErr.Code = we.Code
		}
		if we.Message != "" {
			apiErr.Message = we.Message
		}
		apiErr.Details = we.Details
	}
	return apiErr
}

func isJSON(header http.Header) bool {
	mediaType, _, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
