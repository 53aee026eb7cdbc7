package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// DocumentSource represents the kind of system a connector reads documents from.
// Values include SourceFile, SourceWeb, and SourceArxiv.
type DocumentSource string

const (
	SourceFile  DocumentSource = "file"
	SourceWeb   DocumentSource = "web"
	SourceArxiv DocumentSource = "arxiv"
)

// Valid reports whether the source kind is one of the recognized values.
func (s DocumentSource) Valid() bool {
	switch s {
	case SourceFile, SourceWeb, SourceArxiv:
		return true
	}
	return false
}

// InputType represents how a connector consumes its source.
// Values include InputLoadState (full load) and InputPoll (incremental).
type InputType string

const (
	InputLoadState InputType = "load_state"
	InputPoll      InputType = "poll"
)

// Valid reports whether the input type is one of the recognized values.
func (t InputType) Valid() bool {
	switch t {
	case InputLoadState, InputPoll:
		return true
	}
	return false
}

// ConnectorConfig is a custom type for storing source-specific JSON config
// in the database. The mapping is stored opaquely; validation of its contents
// belongs to the source adapter, not the catalog.
type ConnectorConfig map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the config.
//   - error: non-nil if marshaling fails.
func (c ConnectorConfig) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (c *ConnectorConfig) Scan(value interface{}) error {
	if value == nil {
		*c = ConnectorConfig{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ConnectorConfig")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, c)
}

// Connector represents a registered definition of where documents come from.
// The name is not required to be unique at this layer. Once a connector is
// referenced by a pair, only RefreshFreq and Disabled may change.
type Connector struct {
	ID          string          `gorm:"type:text;primaryKey" json:"id"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	Source      DocumentSource  `gorm:"type:text;not null;index:idx_connectors_source" json:"source"`
	InputType   InputType       `gorm:"type:text;not null" json:"input_type"`
	Config      ConnectorConfig `gorm:"type:text" json:"connector_specific_config"`
	RefreshFreq *int            `json:"refresh_freq,omitempty"`
	Disabled    bool            `gorm:"default:false" json:"disabled"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName returns the database table name for Connector.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Connector) TableName() string {
	return "connectors"
}
