package domain

import "time"

// EmbeddingModel represents an embedding model configuration registered in
// the catalog. Exactly one row is current at a time; every new index attempt
// is bound to the current model when it is created.
type EmbeddingModel struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	ModelName  string    `gorm:"type:text;not null" json:"model_name"`
	Provider   string    `gorm:"type:text" json:"provider"`
	Dimensions int       `gorm:"default:0" json:"dimensions"`
	IsCurrent  bool      `gorm:"default:false;index" json:"is_current"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for EmbeddingModel.
func (EmbeddingModel) TableName() string {
	return "embedding_models"
}
