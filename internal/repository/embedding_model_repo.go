package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmbeddingModelRepository handles embedding model catalog operations.
type EmbeddingModelRepository struct {
	db *gorm.DB
}

// NewEmbeddingModelRepository creates a new EmbeddingModelRepository.
func NewEmbeddingModelRepository(db *gorm.DB) *EmbeddingModelRepository {
	return &EmbeddingModelRepository{db: db}
}

// GetCurrent retrieves the currently active embedding model. Every new
// index attempt is bound to this model at creation time.
func (r *EmbeddingModelRepository) GetCurrent(ctx context.Context) (*domain.EmbeddingModel, error) {
	var model domain.EmbeddingModel
	if err := r.db.WithContext(ctx).First(&model, "is_current = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no current embedding model configured")
		}
		return nil, err
	}
	return &model, nil
}

// EnsureDefault seeds a current embedding model from configuration when the
// catalog has none. Called once at startup.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - modelName: embedding model name.
//   - provider: embedding provider name.
//   - dimensions: embedding vector dimensions.
// Returns:
//   - *domain.EmbeddingModel: the current model, seeded or pre-existing.
//   - error: non-nil if lookup or insert fails.
func (r *EmbeddingModelRepository) EnsureDefault(ctx context.Context, modelName, provider string, dimensions int) (*domain.EmbeddingModel, error) {
	var model domain.EmbeddingModel
	err := r.db.WithContext(ctx).First(&model, "is_current = ?", true).Error
	if err == nil {
		return &model, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	model = domain.EmbeddingModel{
		ID:         uuid.New().String(),
		ModelName:  modelName,
		Provider:   provider,
		Dimensions: dimensions,
		IsCurrent:  true,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}
