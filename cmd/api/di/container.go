package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-graph-service/cmd/api/infrastructure"
	"user-graph-service/internal/adapter/cache"
	"user-graph-service/internal/adapter/db/postgres"
	ginhandler "user-graph-service/internal/adapter/gin/handler"
	ginmiddleware "user-graph-service/internal/adapter/gin/middleware"
	grpcadapter "user-graph-service/internal/adapter/grpc"
	"user-graph-service/internal/adapter/grpc/middleware"
	"user-graph-service/internal/adapter/repository/cached"
	"user-graph-service/internal/config"
	"user-graph-service/internal/usecase/follow"
	"user-graph-service/internal/usecase/recommend"
	"user-graph-service/internal/usecase/search"
	"user-graph-service/internal/usecase/user"
	redisclient "user-graph-service/pkg/redis"
	"user-graph-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	RedisClient   *redisclient.Client
	UserUC        user.UserUsecase
	RateLimiter   *middleware.RateLimiter
	TokenVerifier ginmiddleware.TokenVerifier
	GinHandler    *ginhandler.UserHandler
	Health        *grpcadapter.HealthService
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	c := &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
	}

	// Initialize cache layer and rate limiter; both need Redis
	var userCache cache.UserCache
	if rdb != nil {
		userCache = cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				WindowSeconds:     cfg.RateLimit.WindowSeconds,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	// Initialize repository
	dbRepo := postgres.NewUserRepoPG(db, l)
	repo := cached.NewCachedUserRepository(dbRepo, userCache, l)

	// Initialize use cases; search and recommendations read summaries straight
	// from the database
	c.UserUC = user.New(
		repo,
		follow.New(repo, l),
		search.New(dbRepo, search.Config{
			DefaultLimit: cfg.Search.DefaultLimit,
			MaxLimit:     cfg.Search.MaxLimit,
		}, l),
		recommend.New(dbRepo, l),
		l,
	)

	// Initialize token verification
	if cfg.Auth.JWTSecret != "" {
		verifier, err := security.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
		}
		c.TokenVerifier = verifier
	} else {
		l.Warn("AUTH_JWT_SECRET not set, bearer token verification is off")
	}

	// Initialize Gin handler
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)

	c.Health = grpcadapter.NewHealthService(l, c.probes()...)

	return c, nil
}

func (c *Container) probes() []grpcadapter.Probe {
	probes := []grpcadapter.Probe{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if c.RedisClient != nil {
		probes = append(probes, grpcadapter.Probe{Name: "redis", Check: c.RedisClient.Ping})
	}
	return probes
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
