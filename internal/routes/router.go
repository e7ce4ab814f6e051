package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecobin-telemetry/internal/config"
	"ecobin-telemetry/internal/delivery/http/handler"
	"ecobin-telemetry/internal/infrastructure/database/postgres"
	"ecobin-telemetry/internal/ingestion"
	"ecobin-telemetry/internal/logger"
	"ecobin-telemetry/internal/middleware"
	usecaseBin "ecobin-telemetry/internal/usecase/bin"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB, ingestService *ingestion.Service, binService *usecaseBin.Service) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	if cfg.RateLimit.GeneralRPS > 0 {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))
	}

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ingestHandler := handler.NewIngestHandler(ingestService)
	binHandler := handler.NewBinHandler(binService)

	auth := middleware.AuthMiddleware(cfg)

	// The ingest chain order is load-bearing: the bin_code check answers
	// before the rate limiter sees the request, and the rate limiter
	// answers before the body is parsed.
	router.POST("/ingest",
		auth,
		middleware.DeviceOnly(),
		middleware.RequireBinCodeMiddleware(),
		middleware.IngestRateLimitMiddleware(&cfg.Ingest),
		ingestHandler.Ingest,
	)
	router.GET("/ingest/stats", auth, middleware.OperatorOnly(), ingestHandler.Stats)

	bins := router.Group("/bins", auth)
	{
		bins.POST("", middleware.OperatorOnly(), binHandler.CreateBin)
		bins.PATCH("/:id", middleware.OperatorOnly(), binHandler.UpdateBin)
		bins.GET("", middleware.HostOrOperator(), binHandler.ListBins)
		bins.GET("/:id/events", middleware.HostOrOperator(), binHandler.ListEvents)
	}

	logger.Info("All routes initialized")
	return router
}
