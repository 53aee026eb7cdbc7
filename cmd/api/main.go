package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aqntks/paper-rag/internal/api"
	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/repository"
	"github.com/aqntks/paper-rag/internal/service"
	"github.com/aqntks/paper-rag/internal/source/arxiv"
	"github.com/aqntks/paper-rag/internal/staging"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatalf("Failed to initialize database")
	}

	// Initialize repositories
	connectorRepo := repository.NewConnectorRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	ccPairRepo := repository.NewCCPairRepository(db)
	attemptRepo := repository.NewIndexAttemptRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	deletionRepo := repository.NewDeletionAttemptRepository(db)
	modelRepo := repository.NewEmbeddingModelRepository(db)

	// Seed the current embedding model when none is configured yet
	ctx := context.Background()
	if _, err := modelRepo.EnsureDefault(ctx, cfg.Embedding.Model, cfg.Embedding.Provider, cfg.Embedding.Dimensions); err != nil {
		appLogger.WithError(err).Fatalf("Failed to ensure embedding model")
	}

	// Initialize paper source and staging backend
	paperSource := arxiv.NewAdapter(&arxiv.Config{
		BaseURL:    cfg.Arxiv.BaseURL,
		PageSize:   cfg.Arxiv.PageSize,
		MaxResults: cfg.Arxiv.MaxResults,
	})

	stager, err := staging.NewStager(&cfg.Staging)
	if err != nil {
		appLogger.WithError(err).Fatalf("Failed to initialize staging backend")
	}

	// Initialize services
	schedulerService := service.NewSchedulerService(ccPairRepo, attemptRepo, modelRepo, appLogger)
	statusService := service.NewStatusService(
		ccPairRepo, attemptRepo, documentRepo, deletionRepo,
		cfg.Ingest.ReservedPairName, appLogger,
	)
	ingestService := service.NewIngestService(
		paperSource, stager,
		connectorRepo, credentialRepo, ccPairRepo,
		schedulerService, statusService,
		cfg, appLogger,
	)

	// Setup router
	router := api.SetupRouter(ingestService, statusService, schedulerService, &cfg.Server, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatalf("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Infof("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatalf("Server forced to shutdown")
	}

	appLogger.Infof("Server exited")
}
