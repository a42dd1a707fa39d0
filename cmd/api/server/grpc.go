package server

import (
	"google.golang.org/grpc"

	"user-graph-service/cmd/api/di"
	grpcadapter "user-graph-service/internal/adapter/grpc"
)

// SetupGRPC creates the gRPC ops server exposing the health service
func SetupGRPC(c *di.Container) *grpc.Server {
	return grpcadapter.NewServer(c.Health, c.RateLimiter)
}
