package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectorRepository handles connector catalog operations.
type ConnectorRepository struct {
	db *gorm.DB
}

// NewConnectorRepository creates a new ConnectorRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ConnectorRepository: repository instance bound to db.
func NewConnectorRepository(db *gorm.DB) *ConnectorRepository {
	return &ConnectorRepository{db: db}
}

// Create inserts a new connector record. The source kind and input type must
// be recognized enumerated values; the config mapping is stored opaquely and
// not validated here.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - connector: connector record to persist; ID is assigned when empty.
// Returns:
//   - error: domain.ErrInvalidConnectorSpec for bad enums, otherwise the
//     storage error.
func (r *ConnectorRepository) Create(ctx context.Context, connector *domain.Connector) error {
	if !connector.Source.Valid() {
		return fmt.Errorf("%w: source %q", domain.ErrInvalidConnectorSpec, connector.Source)
	}
	if !connector.InputType.Valid() {
		return fmt.Errorf("%w: input type %q", domain.ErrInvalidConnectorSpec, connector.InputType)
	}
	if connector.ID == "" {
		connector.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(connector).Error
}

// GetByID retrieves a connector by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: connector ID.
// Returns:
//   - *domain.Connector: connector record if found.
//   - error: domain.ErrConnectorNotFound when no record exists.
func (r *ConnectorRepository) GetByID(ctx context.Context, id string) (*domain.Connector, error) {
	var connector domain.Connector
	if err := r.db.WithContext(ctx).First(&connector, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConnectorNotFound
		}
		return nil, err
	}
	return &connector, nil
}

// UpdateRefresh updates the mutable refresh and disabled fields of a
// connector. Other fields are immutable once a pair references it.
func (r *ConnectorRepository) UpdateRefresh(ctx context.Context, id string, refreshFreq *int, disabled bool) error {
	return r.db.WithContext(ctx).Model(&domain.Connector{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"refresh_freq": refreshFreq,
			"disabled":     disabled,
		}).Error
}
