package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/repository"
	"gorm.io/gorm"
)

// testEnv bundles a throwaway database with the repositories the services
// are built on.
type testEnv struct {
	db             *gorm.DB
	connectorRepo  *repository.ConnectorRepository
	credentialRepo *repository.CredentialRepository
	ccPairRepo     *repository.CCPairRepository
	attemptRepo    *repository.IndexAttemptRepository
	documentRepo   *repository.DocumentRepository
	deletionRepo   *repository.DeletionAttemptRepository
	modelRepo      *repository.EmbeddingModelRepository
	log            *logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}
	db, err := repository.InitDB(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return &testEnv{
		db:             db,
		connectorRepo:  repository.NewConnectorRepository(db),
		credentialRepo: repository.NewCredentialRepository(db),
		ccPairRepo:     repository.NewCCPairRepository(db),
		attemptRepo:    repository.NewIndexAttemptRepository(db),
		documentRepo:   repository.NewDocumentRepository(db),
		deletionRepo:   repository.NewDeletionAttemptRepository(db),
		modelRepo:      repository.NewEmbeddingModelRepository(db),
		log:            logger.NewDefault(),
	}
}

func (e *testEnv) seedConnector(t *testing.T, name string) string {
	t.Helper()

	connector := &domain.Connector{
		Name:      name,
		Source:    domain.SourceFile,
		InputType: domain.InputLoadState,
		Config:    domain.ConnectorConfig{"file_locations": []string{}},
	}
	if err := e.connectorRepo.Create(context.Background(), connector); err != nil {
		t.Fatalf("Failed to seed connector: %v", err)
	}
	return connector.ID
}

func (e *testEnv) seedCredential(t *testing.T) string {
	t.Helper()

	credential := &domain.Credential{AdminPublic: true}
	if err := e.credentialRepo.Create(context.Background(), credential, nil); err != nil {
		t.Fatalf("Failed to seed credential: %v", err)
	}
	return credential.ID
}

func (e *testEnv) seedModel(t *testing.T) string {
	t.Helper()

	model, err := e.modelRepo.EnsureDefault(context.Background(), "text-embedding-3-small", "openai", 1536)
	if err != nil {
		t.Fatalf("Failed to seed embedding model: %v", err)
	}
	return model.ID
}

func (e *testEnv) bindPair(t *testing.T, connectorID, credentialID, name string) *domain.ConnectorCredentialPair {
	t.Helper()

	pair, err := e.ccPairRepo.Bind(context.Background(), connectorID, credentialID, name, nil)
	if err != nil {
		t.Fatalf("Failed to bind pair %q: %v", name, err)
	}
	return pair
}

func (e *testEnv) scheduler() *SchedulerService {
	return NewSchedulerService(e.ccPairRepo, e.attemptRepo, e.modelRepo, e.log)
}

func (e *testEnv) status(reservedPairName string) *StatusService {
	return NewStatusService(e.ccPairRepo, e.attemptRepo, e.documentRepo, e.deletionRepo, reservedPairName, e.log)
}
