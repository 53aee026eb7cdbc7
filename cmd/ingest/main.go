package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/repository"
	"github.com/aqntks/paper-rag/internal/service"
	"github.com/aqntks/paper-rag/internal/source/arxiv"
	"github.com/aqntks/paper-rag/internal/staging"
)

// One-shot ingestion runner. Fetches, stages, registers, and schedules a
// single batch, then prints the resulting status snapshots as JSON.
func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	fromBeginning := flag.Bool("from-beginning", false, "schedule a full reindex instead of an incremental run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatalf("Failed to initialize database")
	}

	connectorRepo := repository.NewConnectorRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	ccPairRepo := repository.NewCCPairRepository(db)
	attemptRepo := repository.NewIndexAttemptRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	deletionRepo := repository.NewDeletionAttemptRepository(db)
	modelRepo := repository.NewEmbeddingModelRepository(db)

	ctx := context.Background()
	if _, err := modelRepo.EnsureDefault(ctx, cfg.Embedding.Model, cfg.Embedding.Provider, cfg.Embedding.Dimensions); err != nil {
		appLogger.WithError(err).Fatalf("Failed to ensure embedding model")
	}

	paperSource := arxiv.NewAdapter(&arxiv.Config{
		BaseURL:    cfg.Arxiv.BaseURL,
		PageSize:   cfg.Arxiv.PageSize,
		MaxResults: cfg.Arxiv.MaxResults,
	})

	stager, err := staging.NewStager(&cfg.Staging)
	if err != nil {
		appLogger.WithError(err).Fatalf("Failed to initialize staging backend")
	}

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

	result, err := ingestService.Run(ctx, *fromBeginning || cfg.Ingest.FromBeginning)
	if err != nil {
		appLogger.WithError(err).Fatalf("Ingestion run failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		appLogger.WithError(err).Fatalf("Failed to encode run result")
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}
