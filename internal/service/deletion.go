package service

import (
	"github.com/aqntks/paper-rag/internal/domain"
)

// deletionAllowed reports whether a pair can be deleted right now. A pair is
// deletable only when its connector is disabled and no indexing run is
// pending or in flight, so a delete can never race a live indexing job.
func deletionAllowed(pair *domain.ConnectorCredentialPair, latestStatus *domain.IndexingStatus) bool {
	if !pair.Connector.Disabled {
		return false
	}
	if latestStatus == nil {
		return true
	}
	return latestStatus.Finished()
}
