package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-graph-service/internal/adapter/gin/problem"
	grpcmiddleware "user-graph-service/internal/adapter/grpc/middleware"
	"user-graph-service/pkg/metrics"
)

// RateLimiter returns a Gin middleware sharing the gRPC fixed-window limiter.
// Requests are counted per method, route and client IP.
func RateLimiter(limiter *grpcmiddleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("http:%s:%s:%s", c.Request.Method, route, c.ClientIP())

		if allowed, count := limiter.Allow(c.Request.Context(), key); !allowed {
			metrics.RecordRateLimitHit("http")
			problem.Abort(c, http.StatusTooManyRequests, fmt.Sprintf("rate limit exceeded: %d requests in the current window", count))
			return
		}

		c.Next()
	}
}
