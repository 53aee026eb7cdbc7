package repository

import (
	"context"
	"errors"

	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CredentialRepository handles credential catalog operations.
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create inserts a new credential record. The payload may be empty for
// anonymous file sources and the owner is optional; no uniqueness constraint
// applies.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - credential: credential record to persist; ID is assigned when empty.
//   - userID: optional owning user, nil for admin-shared credentials.
// Returns:
//   - error: non-nil if the insert fails.
func (r *CredentialRepository) Create(ctx context.Context, credential *domain.Credential, userID *string) error {
	if credential.ID == "" {
		credential.ID = uuid.New().String()
	}
	credential.UserID = userID
	if credential.CredentialJSON == nil {
		credential.CredentialJSON = domain.CredentialJSON{}
	}
	return r.db.WithContext(ctx).Create(credential).Error
}

// GetByID retrieves a credential by its ID.
func (r *CredentialRepository) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	var credential domain.Credential
	if err := r.db.WithContext(ctx).First(&credential, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}
	return &credential, nil
}
