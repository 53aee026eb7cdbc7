package domain

import "time"

// DeletionAttempt represents one run of deleting a pair's indexed documents.
// Attempts are driven by an external worker; this workflow reads the latest
// one per pair to enrich status snapshots.
type DeletionAttempt struct {
	ID             string         `gorm:"type:text;primaryKey" json:"id"`
	ConnectorID    string         `gorm:"type:text;not null;index:idx_deletion_attempts_pair" json:"connector_id"`
	CredentialID   string         `gorm:"type:text;not null;index:idx_deletion_attempts_pair" json:"credential_id"`
	Status         IndexingStatus `gorm:"type:text;not null;default:not_started" json:"status"`
	NumDocsDeleted int            `gorm:"default:0" json:"num_docs_deleted"`
	ErrorMsg       string         `gorm:"type:text" json:"error_msg,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName returns the database table name for DeletionAttempt.
func (DeletionAttempt) TableName() string {
	return "deletion_attempts"
}
