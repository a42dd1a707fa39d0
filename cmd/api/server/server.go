package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"user-graph-service/cmd/api/di"
	"user-graph-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	Gin    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	s := &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(c, ":"+cfg.App.HTTPPort, l),
	}
	if cfg.App.GRPCPort != "" {
		s.GRPC = SetupGRPC(c)
	}
	return s
}

// Start runs the Gin and gRPC servers until one of them fails.
func (s *Server) Start() error {
	var g errgroup.Group

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", s.Gin.Addr))
		if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gin server: %w", err)
		}
		return nil
	})

	if s.GRPC != nil {
		g.Go(s.startGRPC)
	}

	return g.Wait()
}

// startGRPC starts the gRPC server
func (s *Server) startGRPC() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", s.grpcAddress())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("gRPC server running", zap.String("address", s.grpcAddress()))
	if err := s.GRPC.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return ":" + s.Config.App.GRPCPort
}
