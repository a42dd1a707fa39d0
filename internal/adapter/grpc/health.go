package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"user-graph-service/internal/adapter/grpc/middleware"
	"user-graph-service/pkg/logger"
)

// ServiceName is the health service name clients may ask about.
const ServiceName = "users"

const probeTimeout = 2 * time.Second

// Probe reports whether one dependency is usable.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthService implements grpc.health.v1.Health by running every probe on each Check.
type HealthService struct {
	healthpb.UnimplementedHealthServer
	probes []Probe
	log    *zap.Logger
}

// NewHealthService creates a health service over the given probes.
func NewHealthService(log *zap.Logger, probes ...Probe) *HealthService {
	return &HealthService{probes: probes, log: log}
}

// Check returns SERVING only when every probe passes.
func (s *HealthService) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	for _, p := range s.probes {
		if err := p.Check(ctx); err != nil {
			logger.WithContext(ctx, s.log).Warn("health probe failed", zap.String("probe", p.Name), zap.Error(err))
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// NewServer creates the gRPC server with request ID and rate limit interceptors
// and registers the health service.
func NewServer(health *HealthService, rateLimiter *middleware.RateLimiter) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(srv, health)
	return srv
}
