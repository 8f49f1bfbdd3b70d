package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zuno/backend/config"
	"github.com/zuno/backend/internal/domain"
)

// SetupRouter creates and configures the Gin router.
// A nil store disables inbound rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, store domain.RateLimitStore, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)

	recommend := []gin.HandlerFunc{TimeoutMiddleware(cfg.Server.RequestTimeout)}
	if store != nil {
		recommend = append([]gin.HandlerFunc{RateLimitMiddleware(store, logger)}, recommend...)
	}
	recommend = append(recommend, handler.Recommend)

	// Path used by the Streamlit chat client
	router.POST("/invoke_agent", recommend...)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/recommend", recommend...)
	}

	return router
}
