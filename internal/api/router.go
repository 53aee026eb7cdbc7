package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aqntks/paper-rag/internal/api/handler"
	"github.com/aqntks/paper-rag/internal/api/middleware"
	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	ingestService *service.IngestService,
	statusService *service.StatusService,
	schedulerService *service.SchedulerService,
	cfg *config.ServerConfig,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler("paper-rag")
	ingestHandler := handler.NewIngestHandler(ingestService, statusService)
	connectorHandler := handler.NewConnectorHandler(schedulerService)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Ingestion workflow
	ingest := r.Group("/ingest")
	{
		ingest.POST("/run", ingestHandler.Run)
		ingest.GET("/status", ingestHandler.Status)
	}

	// Connector scheduling
	r.POST("/connectors/:id/run", connectorHandler.Run)

	return r
}
