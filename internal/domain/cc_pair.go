package domain

import "time"

// PairIdentifier identifies one connector-credential combination. It is the
// key used for batched lookups of attempts, document counts, and deletions.
type PairIdentifier struct {
	ConnectorID  string `json:"connector_id"`
	CredentialID string `json:"credential_id"`
}

// ConnectorCredentialPair binds one connector to one credential under a
// globally unique display name. The (connector, credential) combination may
// repeat across pairs; the name may not. A pair is the unit that indexing
// runs are scheduled against, and deleting a pair never cascades to the
// connector or the credential it references.
type ConnectorCredentialPair struct {
	ID           string `gorm:"type:text;primaryKey" json:"id"`
	ConnectorID  string `gorm:"type:text;not null;index" json:"connector_id"`
	CredentialID string `gorm:"type:text;not null;index" json:"credential_id"`
	// Uniqueness is enforced by the store, not by a prior read. A concurrent
	// bind with the same name surfaces as ErrNameConflict.
	Name                    string          `gorm:"type:text;not null;uniqueIndex:idx_cc_pairs_name" json:"name"`
	IsPublic                bool            `gorm:"default:true" json:"is_public"`
	LastAttemptStatus       *IndexingStatus `gorm:"type:text" json:"last_attempt_status,omitempty"`
	LastSuccessfulIndexTime *time.Time      `json:"last_successful_index_time,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`

	Connector  Connector  `gorm:"foreignKey:ConnectorID" json:"-"`
	Credential Credential `gorm:"foreignKey:CredentialID" json:"-"`
}

// TableName returns the database table name for ConnectorCredentialPair.
func (ConnectorCredentialPair) TableName() string {
	return "connector_credential_pairs"
}

// Identifier returns the pair's lookup key.
func (p *ConnectorCredentialPair) Identifier() PairIdentifier {
	return PairIdentifier{ConnectorID: p.ConnectorID, CredentialID: p.CredentialID}
}
