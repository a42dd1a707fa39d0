package middleware

import (
	"context"
	"net"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-graph-service/pkg/metrics"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// MaxRequests is the number of requests a key may make per window.
func (c RateLimiterConfig) MaxRequests() int64 {
	n := int64(c.RequestsPerSecond * float64(c.WindowSeconds))
	if n < 1 {
		return 1
	}
	return n
}

// fixedWindow increments the counter for KEYS[1] and starts its expiry on the
// first hit of a window.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
end
return count
`)

// RateLimiter is a Redis fixed-window limiter shared by the gRPC and HTTP transports.
type RateLimiter struct {
	client redis.Scripter
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client redis.Scripter, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Enabled reports whether requests are being limited.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.config.Enabled && rl.client != nil
}

// Allow counts one request against key and reports whether it fits in the
// current window. Redis errors fail open.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int64) {
	if !rl.Enabled() {
		return true, 0
	}

	count, err := fixedWindow.Run(ctx, rl.client, []string{"ratelimit:" + key}, rl.config.WindowSeconds).Int64()
	if err != nil {
		rl.log.Warn("rate limiter redis error, allowing request", zap.String("key", key), zap.Error(err))
		return true, 0
	}

	if count > rl.config.MaxRequests() {
		rl.log.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Float64("limit", rl.config.RequestsPerSecond),
		)
		return false, count
	}
	return true, count
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.Enabled() {
			return handler(ctx, req)
		}

		allowed, count := rl.Allow(ctx, info.FullMethod+":"+clientIP(ctx))
		if !allowed {
			metrics.RecordRateLimitHit("grpc")
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %d requests in %d seconds (limit: %.0f req/s)",
				count, rl.config.WindowSeconds, rl.config.RequestsPerSecond)
		}

		return handler(ctx, req)
	}
}

// clientIP extracts the client IP address from the gRPC context.
func clientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}

	return "unknown"
}
