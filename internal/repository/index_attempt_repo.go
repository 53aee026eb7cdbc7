package repository

import (
	"context"

	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IndexAttemptRepository handles index attempt history operations.
type IndexAttemptRepository struct {
	db *gorm.DB
}

// NewIndexAttemptRepository creates a new IndexAttemptRepository.
func NewIndexAttemptRepository(db *gorm.DB) *IndexAttemptRepository {
	return &IndexAttemptRepository{db: db}
}

// Create inserts a new index attempt with status not_started. The embedding
// model reference is fixed here and never updated afterwards.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - attempt: attempt record to persist; ID and status are assigned.
// Returns:
//   - error: non-nil if the insert fails.
func (r *IndexAttemptRepository) Create(ctx context.Context, attempt *domain.IndexAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	attempt.Status = domain.IndexingNotStarted
	return r.db.WithContext(ctx).Create(attempt).Error
}

// HasUnfinished reports whether the pair has an attempt for the current
// embedding model that is not yet finished (not_started or in_progress).
// Historical finished attempts never block a new run.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - connectorID: connector half of the pair.
//   - credentialID: credential half of the pair.
//   - embeddingModelID: the currently active embedding model.
// Returns:
//   - bool: true when an unfinished attempt exists.
//   - error: non-nil if the query fails.
func (r *IndexAttemptRepository) HasUnfinished(ctx context.Context, connectorID, credentialID, embeddingModelID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.IndexAttempt{}).
		Where("connector_id = ? AND credential_id = ? AND embedding_model_id = ?",
			connectorID, credentialID, embeddingModelID).
		Where("status IN ?", []domain.IndexingStatus{domain.IndexingNotStarted, domain.IndexingInProgress}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestForPairs fetches, in one query, the most recent index attempt for
// each of the given pairs. Pairs with no attempts are absent from the result.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - pairs: pair identifiers to look up.
// Returns:
//   - map[domain.PairIdentifier]domain.IndexAttempt: latest attempt per pair.
//   - error: non-nil if the query fails.
func (r *IndexAttemptRepository) LatestForPairs(ctx context.Context, pairs []domain.PairIdentifier) (map[domain.PairIdentifier]domain.IndexAttempt, error) {
	latest := make(map[domain.PairIdentifier]domain.IndexAttempt, len(pairs))
	if len(pairs) == 0 {
		return latest, nil
	}

	wanted := make(map[domain.PairIdentifier]bool, len(pairs))
	connectorIDs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if !wanted[p] {
			connectorIDs = append(connectorIDs, p.ConnectorID)
		}
		wanted[p] = true
	}

	var attempts []domain.IndexAttempt
	if err := r.db.WithContext(ctx).
		Where("connector_id IN ?", connectorIDs).
		Order("created_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	for _, attempt := range attempts {
		key := domain.PairIdentifier{ConnectorID: attempt.ConnectorID, CredentialID: attempt.CredentialID}
		if !wanted[key] {
			continue
		}
		if _, ok := latest[key]; !ok {
			latest[key] = attempt
		}
	}
	return latest, nil
}

// UpdateStatus transitions an attempt's status. Used by the indexing worker
// side of the system; the orchestration workflow only creates attempts.
func (r *IndexAttemptRepository) UpdateStatus(ctx context.Context, id string, status domain.IndexingStatus, errorMsg string) error {
	return r.db.WithContext(ctx).Model(&domain.IndexAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    status,
			"error_msg": errorMsg,
		}).Error
}
