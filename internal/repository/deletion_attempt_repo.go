package repository

import (
	"context"
	"errors"

	"github.com/aqntks/paper-rag/internal/domain"
	"gorm.io/gorm"
)

// DeletionAttemptRepository provides read access to deletion attempt
// records, which are driven by an external worker.
type DeletionAttemptRepository struct {
	db *gorm.DB
}

// NewDeletionAttemptRepository creates a new DeletionAttemptRepository.
func NewDeletionAttemptRepository(db *gorm.DB) *DeletionAttemptRepository {
	return &DeletionAttemptRepository{db: db}
}

// LatestForPair retrieves the most recent deletion attempt for a pair, or
// nil when the pair has never had one. Never mutates state.
func (r *DeletionAttemptRepository) LatestForPair(ctx context.Context, connectorID, credentialID string) (*domain.DeletionAttempt, error) {
	var attempt domain.DeletionAttempt
	err := r.db.WithContext(ctx).
		Where("connector_id = ? AND credential_id = ?", connectorID, credentialID).
		Order("created_at DESC").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}
