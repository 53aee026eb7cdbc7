package repository

import (
	"context"
	"errors"

	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CCPairRepository handles connector-credential pair operations.
type CCPairRepository struct {
	db *gorm.DB
}

// NewCCPairRepository creates a new CCPairRepository.
func NewCCPairRepository(db *gorm.DB) *CCPairRepository {
	return &CCPairRepository{db: db}
}

// Bind creates a pair binding the connector to the credential under a
// globally unique name. The insert is attempted unconditionally; the store's
// uniqueness constraint decides the winner under concurrent binds with
// timestamp-derived names, and a violation is translated to
// domain.ErrNameConflict. Status fields start as "no attempts yet".
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - connectorID: connector to bind; must exist.
//   - credentialID: credential to bind; must exist.
//   - name: globally unique display name for the pair.
//   - userID: optional acting user; pairs created without one are public.
// Returns:
//   - *domain.ConnectorCredentialPair: the created pair.
//   - error: domain.ErrNameConflict, domain.ErrConnectorNotFound,
//     domain.ErrCredentialNotFound, or the storage error.
func (r *CCPairRepository) Bind(ctx context.Context, connectorID, credentialID, name string, userID *string) (*domain.ConnectorCredentialPair, error) {
	var pair *domain.ConnectorCredentialPair

	// One short transaction for the whole bind; no transaction spans
	// workflow steps.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var connector domain.Connector
		if err := tx.First(&connector, "id = ?", connectorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrConnectorNotFound
			}
			return err
		}

		var credential domain.Credential
		if err := tx.First(&credential, "id = ?", credentialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCredentialNotFound
			}
			return err
		}

		pair = &domain.ConnectorCredentialPair{
			ID:           uuid.New().String(),
			ConnectorID:  connectorID,
			CredentialID: credentialID,
			Name:         name,
			IsPublic:     userID == nil || credential.AdminPublic,
		}

		if err := tx.Create(pair).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrNameConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// ListAll retrieves every pair with its connector and credential preloaded,
// in creation order. The ordering is what status snapshots follow.
func (r *CCPairRepository) ListAll(ctx context.Context) ([]domain.ConnectorCredentialPair, error) {
	var pairs []domain.ConnectorCredentialPair
	if err := r.db.WithContext(ctx).
		Preload("Connector").
		Preload("Credential").
		Order("created_at ASC").
		Find(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}

// CredentialIDsForConnector resolves the credential ids bound to a
// connector. The connector must exist; an existing connector with no
// bindings yields an empty slice, not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - connectorID: connector to resolve.
// Returns:
//   - []string: bound credential ids, possibly empty.
//   - error: domain.ErrConnectorNotFound when the connector is unknown.
func (r *CCPairRepository) CredentialIDsForConnector(ctx context.Context, connectorID string) ([]string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Connector{}).
		Where("id = ?", connectorID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrConnectorNotFound
	}

	var credentialIDs []string
	if err := r.db.WithContext(ctx).Model(&domain.ConnectorCredentialPair{}).
		Where("connector_id = ?", connectorID).
		Pluck("credential_id", &credentialIDs).Error; err != nil {
		return nil, err
	}
	return credentialIDs, nil
}
