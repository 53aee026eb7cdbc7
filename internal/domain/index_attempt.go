package domain

import "time"

// IndexingStatus represents the lifecycle status of an index attempt.
// Values include IndexingNotStarted, IndexingInProgress, IndexingSucceeded,
// and IndexingFailed.
type IndexingStatus string

const (
	IndexingNotStarted IndexingStatus = "not_started"
	IndexingInProgress IndexingStatus = "in_progress"
	IndexingSucceeded  IndexingStatus = "succeeded"
	IndexingFailed     IndexingStatus = "failed"
)

// Finished reports whether the status is terminal. Only unfinished attempts
// block the scheduling of a new run for the same pair.
func (s IndexingStatus) Finished() bool {
	return s == IndexingSucceeded || s == IndexingFailed
}

// IndexAttempt represents one scheduled run of fetching and indexing
// documents for a connector-credential pair. Attempts are created here with
// status not_started and mutated only by the external indexing worker as the
// run progresses; this workflow never deletes them. The embedding model
// reference is fixed at creation time.
type IndexAttempt struct {
	ID               string         `gorm:"type:text;primaryKey" json:"id"`
	ConnectorID      string         `gorm:"type:text;not null;index:idx_index_attempts_pair" json:"connector_id"`
	CredentialID     string         `gorm:"type:text;not null;index:idx_index_attempts_pair" json:"credential_id"`
	EmbeddingModelID string         `gorm:"type:text;not null" json:"embedding_model_id"`
	FromBeginning    bool           `gorm:"default:false" json:"from_beginning"`
	Status           IndexingStatus `gorm:"type:text;not null;default:not_started" json:"status"`
	ErrorMsg         string         `gorm:"type:text" json:"error_msg,omitempty"`
	NewDocsIndexed   int            `gorm:"default:0" json:"new_docs_indexed"`
	TimeStarted      *time.Time     `json:"time_started,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName returns the database table name for IndexAttempt.
func (IndexAttempt) TableName() string {
	return "index_attempts"
}
