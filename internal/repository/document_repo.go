package repository

import (
	"context"

	"github.com/aqntks/paper-rag/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository provides read access to indexed-document records. The
// records themselves are written by the external indexing worker.
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// pairCount is the scan target for the grouped count query.
type pairCount struct {
	ConnectorID  string
	CredentialID string
	Cnt          int64
}

// CountsForPairs fetches, in one grouped query, the indexed document count
// per pair. Pairs with no documents are absent from the result; callers
// default those to zero.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - pairs: pair identifiers to look up.
// Returns:
//   - map[domain.PairIdentifier]int64: document count per pair.
//   - error: non-nil if the query fails.
func (r *DocumentRepository) CountsForPairs(ctx context.Context, pairs []domain.PairIdentifier) (map[domain.PairIdentifier]int64, error) {
	counts := make(map[domain.PairIdentifier]int64, len(pairs))
	if len(pairs) == 0 {
		return counts, nil
	}

	wanted := make(map[domain.PairIdentifier]bool, len(pairs))
	connectorIDs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if !wanted[p] {
			connectorIDs = append(connectorIDs, p.ConnectorID)
		}
		wanted[p] = true
	}

	var rows []pairCount
	if err := r.db.WithContext(ctx).Model(&domain.IndexedDocument{}).
		Select("connector_id, credential_id, COUNT(*) AS cnt").
		Where("connector_id IN ?", connectorIDs).
		Group("connector_id, credential_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		key := domain.PairIdentifier{ConnectorID: row.ConnectorID, CredentialID: row.CredentialID}
		if wanted[key] {
			counts[key] = row.Cnt
		}
	}
	return counts, nil
}
