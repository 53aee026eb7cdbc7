package domain

import "time"

// IndexedDocument records that a document has been indexed for a
// connector-credential pair. Rows are written by the external indexing
// worker; this workflow only reads them for batched per-pair counts.
type IndexedDocument struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	ConnectorID  string    `gorm:"type:text;not null;index:idx_indexed_documents_pair" json:"connector_id"`
	CredentialID string    `gorm:"type:text;not null;index:idx_indexed_documents_pair" json:"credential_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for IndexedDocument.
func (IndexedDocument) TableName() string {
	return "indexed_documents"
}
