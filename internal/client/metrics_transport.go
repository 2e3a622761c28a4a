package client

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/folionote/folio/internal/pkg/metrics"
)

// metricsTransport wraps an http.RoundTripper to record per-route call
// counts, latencies, and error classes for every backend API call.
type metricsTransport struct {
	base http.RoundTripper
}

// NewMetricsTransport wraps base with backend API instrumentation. Pass
// nil to wrap http.DefaultTransport. Long-running embedders install it
// via WithHTTPClient and expose the default Prometheus registry.
func NewMetricsTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &metricsTransport{base: base}
}

// WithMetrics instruments the client's transport. The zero-value
// transport of the default client is wrapped in place.
func WithMetrics() Option {
	return func(c *Client) {
		c.http.Transport = NewMetricsTransport(c.http.Transport)
	}
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	route := normalizeRoute(req.URL.Path)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	status := strconv.Itoa(statusCode)

	metrics.APICalls.WithLabelValues(req.Method, route, status).Inc()
	metrics.APIDuration.WithLabelValues(req.Method, route).Observe(float64(duration.Milliseconds()))

	if strings.HasSuffix(route, "/auth/refresh") {
		metrics.TokenRefreshes.WithLabelValues(status).Inc()
	}

	if err != nil || statusCode >= 400 {
		metrics.APIErrors.WithLabelValues(route, classifyError(statusCode, err)).Inc()
	}

	return resp, err
}

// normalizeRoute collapses variable path segments. Numeric segments are
// ids; the segment after "slug" is a project slug.
func normalizeRoute(path string) string {
	segments := strings.Split(path, "/")
	slugNext := false
	for i, seg := range segments {
		if isNumeric(seg) {
			segments[i] = ":id"
			continue
		}
		if slugNext && seg != "" {
			segments[i] = ":slug"
			slugNext = false
			continue
		}
		if seg == "slug" {
			// /projects/slug/{owner_id}/{slug}: the owner id is caught
			// by isNumeric, the slug itself needs flagging.
			slugNext = true
		}
	}
	return strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// classifyError categorizes a failed call for metrics.
func classifyError(statusCode int, err error) string {
	if err != nil {
		errStr := err.Error()
		switch {
		case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline"):
			return "timeout"
		case strings.Contains(errStr, "connection"):
			return "connection"
		case strings.Contains(errStr, "TLS"):
			return "tls"
		default:
			return "network"
		}
	}

	switch {
	case statusCode == http.StatusBadRequest:
		return "bad_request"
	case statusCode == http.StatusUnauthorized:
		return "unauthorized"
	case statusCode == http.StatusForbidden:
		return "forbidden"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode == http.StatusUnprocessableEntity:
		return "validation"
	case statusCode == http.StatusTooManyRequests:
		return "rate_limited"
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "client_error"
	default:
		return "unknown"
	}
}
