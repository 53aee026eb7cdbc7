package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// CredentialJSON is a custom type for storing an opaque credential payload
// as JSON in the database. It may be empty for anonymous file sources.
type CredentialJSON map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
func (c CredentialJSON) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database deserialization.
func (c *CredentialJSON) Scan(value interface{}) error {
	if value == nil {
		*c = CredentialJSON{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan CredentialJSON")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, c)
}

// Credential represents access data needed to read from a connector's source.
// Credentials are created independently of any connector and carry no
// uniqueness constraint. UserID is nil for admin-shared credentials.
type Credential struct {
	ID             string         `gorm:"type:text;primaryKey" json:"id"`
	CredentialJSON CredentialJSON `gorm:"type:text" json:"-"`
	AdminPublic    bool           `gorm:"default:false" json:"admin_public"`
	UserID         *string        `gorm:"type:text;index" json:"user_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName returns the database table name for Credential.
func (Credential) TableName() string {
	return "credentials"
}
