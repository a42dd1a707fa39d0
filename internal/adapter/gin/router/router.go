package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-graph-service/api"
	"user-graph-service/internal/adapter/gin/handler"
	"user-graph-service/internal/adapter/gin/middleware"
	grpcmiddleware "user-graph-service/internal/adapter/grpc/middleware"
)

const swaggerDocPath = "/openapi/users.swagger.json"

// Options tunes the optional parts of the router.
type Options struct {
	// RateLimiter limits every route; nil disables limiting.
	RateLimiter *grpcmiddleware.RateLimiter
	// Verifier protects the /users routes except signup and the interest listing; nil disables auth.
	Verifier middleware.TokenVerifier
	// AllowReset registers DELETE /users/.
	AllowReset bool
	// ServiceName is reported by /health.
	ServiceName string
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, opts Options, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	// Logger stays outside Recovery to observe recovered panics
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RateLimiter(opts.RateLimiter))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET(swaggerDocPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", api.SwaggerJSON)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerDocPath))))

	public := router.Group("/users")
	{
		public.POST("/signup", userHandler.SignUp)
		public.POST("/admin/signup", userHandler.SignUpAdmin)
		public.GET("/interests/", userHandler.Interests)
	}

	users := router.Group("/users", middleware.Auth(opts.Verifier))
	{
		users.GET("/", userHandler.ListUsers)
		users.GET("/search", userHandler.SearchUsers)
		users.GET("/:id", userHandler.GetUser)
		users.GET("/email/:email", userHandler.GetUserByEmail)
		users.GET("/followers/:id", userHandler.ListFollowers)
		users.GET("/followeds/:id", userHandler.ListFolloweds)
		users.GET("/followeds/:id/search", userHandler.SearchFolloweds)
		users.GET("/recommendations/:id", userHandler.Recommendations)

		users.POST("/location/:id", userHandler.SetLocation)
		users.POST("/interests/:id", userHandler.SetInterests)
		users.POST("/goals/:id", userHandler.SetGoals)
		users.PUT("/name/:id", userHandler.Rename)
		users.PATCH("/block/:id", userHandler.Block)
		users.PATCH("/unblock/:id", userHandler.Unblock)

		users.POST("/follow/:id", userHandler.Follow)
		users.DELETE("/follow/:id", userHandler.Unfollow)

		if opts.AllowReset {
			users.DELETE("/", userHandler.Reset)
		}
	}

	return router
}
