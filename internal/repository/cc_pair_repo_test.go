package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/domain"
	"gorm.io/gorm"
)

// newTestDB opens a throwaway SQLite database with the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}
	db, err := InitDB(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	return db
}

// seedConnector inserts a minimal valid connector and returns its ID.
func seedConnector(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()

	repo := NewConnectorRepository(db)
	connector := &domain.Connector{
		Name:      name,
		Source:    domain.SourceFile,
		InputType: domain.InputLoadState,
		Config:    domain.ConnectorConfig{"file_locations": []string{}},
	}
	if err := repo.Create(context.Background(), connector); err != nil {
		t.Fatalf("Failed to seed connector: %v", err)
	}
	return connector.ID
}

// seedCredential inserts an empty admin-public credential and returns its ID.
func seedCredential(t *testing.T, db *gorm.DB) string {
	t.Helper()

	repo := NewCredentialRepository(db)
	credential := &domain.Credential{AdminPublic: true}
	if err := repo.Create(context.Background(), credential, nil); err != nil {
		t.Fatalf("Failed to seed credential: %v", err)
	}
	return credential.ID
}

// TestBindDuplicateName verifies the store-enforced name uniqueness: a second
// bind reusing a name fails with ErrNameConflict even across different
// connector and credential combinations.
func TestBindDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewCCPairRepository(db)
	ctx := context.Background()

	connectorA := seedConnector(t, db, "connector-a")
	connectorB := seedConnector(t, db, "connector-b")
	credentialA := seedCredential(t, db)
	credentialB := seedCredential(t, db)

	if _, err := repo.Bind(ctx, connectorA, credentialA, "arxiv_batch_1", nil); err != nil {
		t.Fatalf("First bind failed: %v", err)
	}

	_, err := repo.Bind(ctx, connectorB, credentialB, "arxiv_batch_1", nil)
	if !errors.Is(err, domain.ErrNameConflict) {
		t.Errorf("Expected ErrNameConflict for duplicate name, got %v", err)
	}
}

// TestBindSamePairDifferentNames verifies that the same connector-credential
// combination may be bound multiple times under distinct names.
func TestBindSamePairDifferentNames(t *testing.T) {
	db := newTestDB(t)
	repo := NewCCPairRepository(db)
	ctx := context.Background()

	connectorID := seedConnector(t, db, "connector")
	credentialID := seedCredential(t, db)

	first, err := repo.Bind(ctx, connectorID, credentialID, "arxiv_batch_1", nil)
	if err != nil {
		t.Fatalf("First bind failed: %v", err)
	}
	second, err := repo.Bind(ctx, connectorID, credentialID, "arxiv_batch_2", nil)
	if err != nil {
		t.Fatalf("Second bind failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("Expected distinct pair IDs for distinct names")
	}
}

// TestBindMissingReferences verifies the lookup errors for unknown ids.
func TestBindMissingReferences(t *testing.T) {
	db := newTestDB(t)
	repo := NewCCPairRepository(db)
	ctx := context.Background()

	connectorID := seedConnector(t, db, "connector")
	credentialID := seedCredential(t, db)

	testCases := []struct {
		name         string
		connectorID  string
		credentialID string
		wantErr      error
	}{
		{
			name:         "unknown connector",
			connectorID:  "missing",
			credentialID: credentialID,
			wantErr:      domain.ErrConnectorNotFound,
		},
		{
			name:         "unknown credential",
			connectorID:  connectorID,
			credentialID: "missing",
			wantErr:      domain.ErrCredentialNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Bind(ctx, tc.connectorID, tc.credentialID, "some-name", nil)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestCredentialIDsForConnector verifies credential resolution including the
// empty-bindings and unknown-connector cases.
func TestCredentialIDsForConnector(t *testing.T) {
	db := newTestDB(t)
	repo := NewCCPairRepository(db)
	ctx := context.Background()

	connectorID := seedConnector(t, db, "connector")

	// Unknown connectors are an error, empty bindings are not.
	if _, err := repo.CredentialIDsForConnector(ctx, "missing"); !errors.Is(err, domain.ErrConnectorNotFound) {
		t.Errorf("Expected ErrConnectorNotFound for unknown connector, got %v", err)
	}

	ids, err := repo.CredentialIDsForConnector(ctx, connectorID)
	if err != nil {
		t.Fatalf("Resolution failed for connector with no bindings: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no credential ids, got %v", ids)
	}

	credentialA := seedCredential(t, db)
	credentialB := seedCredential(t, db)
	if _, err := repo.Bind(ctx, connectorID, credentialA, "pair-a", nil); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if _, err := repo.Bind(ctx, connectorID, credentialB, "pair-b", nil); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	ids, err = repo.CredentialIDsForConnector(ctx, connectorID)
	if err != nil {
		t.Fatalf("Resolution failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 credential ids, got %d", len(ids))
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[credentialA] || !found[credentialB] {
		t.Errorf("Expected %s and %s, got %v", credentialA, credentialB, ids)
	}
}
