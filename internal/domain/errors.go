package domain

import "errors"

// Workflow errors surfaced to API callers. Handlers map these to client
// error codes with errors.Is; anything else is treated as an internal
// failure and aborts the request.
var (
	// ErrNameConflict is returned when a pair name is already taken. It is
	// translated from the store's uniqueness violation, never detected by a
	// prior read.
	ErrNameConflict = errors.New("connector-credential pair name must be unique")

	// ErrConnectorNotFound is returned when a referenced connector does not
	// exist in the catalog.
	ErrConnectorNotFound = errors.New("connector does not exist")

	// ErrCredentialNotFound is returned when a referenced credential does
	// not exist in the catalog.
	ErrCredentialNotFound = errors.New("credential does not exist")

	// ErrInvalidCredentialSet is returned when a caller-supplied credential
	// subset contains ids not bound to the connector.
	ErrInvalidCredentialSet = errors.New("not all specified credentials are associated with connector")

	// ErrNoValidCredentials is returned when the resolved credential set is
	// empty and no index attempts can be created.
	ErrNoValidCredentials = errors.New("connector has no valid credentials, cannot create index attempts")

	// ErrNothingScheduled is returned when every candidate credential was
	// skipped because a run is already in flight. It signals a no-op, not a
	// failure the caller should retry immediately.
	ErrNothingScheduled = errors.New("no new indexing attempts created, indexing jobs are queued or running")

	// ErrInvalidConnectorSpec is returned when a connector spec carries an
	// unrecognized source kind or input type.
	ErrInvalidConnectorSpec = errors.New("unrecognized connector source or input type")
)
