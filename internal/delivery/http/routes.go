package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orderlens/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router. metrics, when not nil,
// is served on /metrics.
func SetupRouter(cfg *config.Config, handler *Handler, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	limiter := NewRateLimiter(RateLimiterConfig{
		PerSecond: cfg.RateLimit.PerIP,
		Burst:     cfg.RateLimit.Burst,
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(limiter.Middleware())
	{
		v1.GET("/dictionary", handler.DictionaryInfo)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handler.CreateSession)
			sessions.GET("/:id", handler.GetSession)
			sessions.DELETE("/:id", handler.DeleteSession)
			sessions.POST("/:id/turns", handler.ProcessTurn)
			sessions.POST("/:id/reset", handler.ResetSession)
		}
	}

	return router
}
