package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"transport"},
	)

	// Follow graph metrics
	FollowOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follow_operations_total",
			Help: "Follow and unfollow attempts by outcome",
		},
		[]string{"operation", "result"},
	)

	// Recommendation metrics
	RecommendationCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of candidates produced per strategy before exclusion",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"strategy"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent computing recommendations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Database metrics
	DBQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "SQL statements by verb and outcome (ok, conflict, error)",
		},
		[]string{"verb", "result"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "SQL statement latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"verb"},
	)

	// Cache metrics
	UserCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_cache_lookups_total",
			Help: "User cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rejected request.
func RecordRateLimitHit(transport string) {
	APIRateLimitHits.WithLabelValues(transport).Inc()
}

// RecordFollow records the outcome of a follow or unfollow.
func RecordFollow(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	FollowOperations.WithLabelValues(operation, result).Inc()
}

// RecordCandidates records the size of one strategy's candidate set.
func RecordCandidates(strategy string, n int) {
	RecommendationCandidates.WithLabelValues(strategy).Observe(float64(n))
}

// RecordCacheLookup records a cache hit, miss or error.
func RecordCacheLookup(result string) {
	UserCacheLookups.WithLabelValues(result).Inc()
}

// RecordDBQuery records one executed SQL statement.
func RecordDBQuery(verb, result string, duration time.Duration) {
	DBQueries.WithLabelValues(verb, result).Inc()
	DBQueryDuration.WithLabelValues(verb).Observe(duration.Seconds())
}
