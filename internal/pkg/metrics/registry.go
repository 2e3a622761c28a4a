package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API client metrics. Routes are normalized before labeling so ids and
// slugs never explode cardinality.
var (
	// APICalls tracks backend API calls
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_api_calls_total",
			Help: "Total backend API calls by method, route (normalized path), and status code",
		},
		[]string{"method", "route", "status_code"},
	)

	// APIDuration tracks backend API latency
	APIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "folio_api_duration_ms",
			Help:                            "Backend API call duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"method", "route"},
	)

	// APIErrors tracks backend API errors
	APIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_api_errors_total",
			Help: "Total backend API errors by route and error type",
		},
		[]string{"route", "error_type"},
	)

	// TokenRefreshes tracks access-token refresh attempts
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_token_refreshes_total",
			Help: "Total access-token refresh calls by status code",
		},
		[]string{"status_code"},
	)
)
