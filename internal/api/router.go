package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harukit/journeys-backend-go/internal/config"
	"github.com/harukit/journeys-backend-go/internal/engine"
	"github.com/harukit/journeys-backend-go/internal/handler"
	"github.com/harukit/journeys-backend-go/internal/metrics"
	"github.com/harukit/journeys-backend-go/internal/middleware"
	"github.com/harukit/journeys-backend-go/internal/repository"
	"github.com/harukit/journeys-backend-go/internal/service"
)

// SetupRouter wires services and handlers onto a gin engine
func SetupRouter(cfg *config.Config, eng *engine.Engine, journeyRepo *repository.JourneyRepository, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Journeys Backend API is running",
		})
	})

	if reg != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(reg)))
	}

	ingestService := service.NewIngestService(eng)
	journeyService := service.NewJourneyService(journeyRepo)

	sampleHandler := handler.NewSampleHandler(ingestService)
	journeyHandler := handler.NewJourneyHandler(journeyService)

	// API route group
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		api.POST("/samples", sampleHandler.ProcessSample)

		users := api.Group("/users/:id")
		{
			users.GET("/journeys", journeyHandler.GetJourneys)
			users.GET("/journeys/current", journeyHandler.GetCurrentJourney)
		}
	}

	return r
}
