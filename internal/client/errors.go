package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Well-known error codes for failures that never reach the server.
// Anything else is either "HTTP_<status>" or a code supplied by the
// backend in its error envelope.
const (
	CodeTimeout = "TIMEOUT"
	CodeNetwork = "NETWORK_ERROR"
)

// Error is the single error shape every failure path converges to.
// Callers distinguish cases via Code and Status, never by matching
// the message text.
type Error struct {
	Code    string         // machine-readable code
	Message string         // human-readable description
	Status  int            // HTTP status, 0 for transport-level failures
	Details map[string]any // optional structured payload from the server
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// httpCode builds the fallback code for a response without a usable
// error envelope.
func httpCode(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}

// IsTimeout reports whether err is a request that exceeded the
// configured timeout.
func IsTimeout(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == CodeTimeout
}

// IsNetwork reports whether err is a transport-level failure (DNS,
// connection refused, malformed response body).
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == CodeNetwork
}

// IsAuth reports whether err is an authentication failure (HTTP 401)
// that survived the refresh-and-retry protocol.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
