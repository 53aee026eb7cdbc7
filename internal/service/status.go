package service

import (
	"context"
	"time"

	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/repository"
)

// StatusService reconstructs a point-in-time indexing status snapshot across
// pairs, their latest attempts, document counts, and deletion state. This is
// the most join-heavy part of the workflow; attempt and count lookups run as
// one batched query each, keyed by pair identity, never per pair per field.
type StatusService struct {
	ccPairRepo   *repository.CCPairRepository
	attemptRepo  *repository.IndexAttemptRepository
	documentRepo *repository.DocumentRepository
	deletionRepo *repository.DeletionAttemptRepository
	// reservedPairName is the system-default pair used for ad-hoc
	// ingestion. It is never reported in snapshots.
	reservedPairName string
	logger           *logger.Logger
}

// NewStatusService creates a new status service.
// Parameters:
//   - ccPairRepo, attemptRepo, documentRepo, deletionRepo: catalog access.
//   - reservedPairName: name of the excluded system-default pair.
//   - log: logger instance.
// Returns:
//   - *StatusService: initialized service.
func NewStatusService(
	ccPairRepo *repository.CCPairRepository,
	attemptRepo *repository.IndexAttemptRepository,
	documentRepo *repository.DocumentRepository,
	deletionRepo *repository.DeletionAttemptRepository,
	reservedPairName string,
	log *logger.Logger,
) *StatusService {
	return &StatusService{
		ccPairRepo:       ccPairRepo,
		attemptRepo:      attemptRepo,
		documentRepo:     documentRepo,
		deletionRepo:     deletionRepo,
		reservedPairName: reservedPairName,
		logger:           log,
	}
}

// ConnectorSnapshot is the connector view embedded in a status snapshot.
type ConnectorSnapshot struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Source      domain.DocumentSource  `json:"source"`
	InputType   domain.InputType       `json:"input_type"`
	Config      domain.ConnectorConfig `json:"connector_specific_config"`
	RefreshFreq *int                   `json:"refresh_freq,omitempty"`
	Disabled    bool                   `json:"disabled"`
	CreatedAt   time.Time              `json:"created_at"`
}

// CredentialSnapshot is the credential view embedded in a status snapshot.
// The credential payload is never exposed.
type CredentialSnapshot struct {
	ID          string    `json:"id"`
	AdminPublic bool      `json:"admin_public"`
	UserID      *string   `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IndexAttemptSnapshot is the attempt view embedded in a status snapshot.
type IndexAttemptSnapshot struct {
	ID             string                `json:"id"`
	Status         domain.IndexingStatus `json:"status"`
	FromBeginning  bool                  `json:"from_beginning"`
	NewDocsIndexed int                   `json:"new_docs_indexed"`
	ErrorMsg       string                `json:"error_msg,omitempty"`
	TimeStarted    *time.Time            `json:"time_started,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// DeletionAttemptSnapshot is the deletion view embedded in a status snapshot.
type DeletionAttemptSnapshot struct {
	ID             string                `json:"id"`
	Status         domain.IndexingStatus `json:"status"`
	NumDocsDeleted int                   `json:"num_docs_deleted"`
}

// IndexingStatusSnapshot is the derived, read-only report for one pair. It
// is computed fresh on each status request and never persisted.
type IndexingStatusSnapshot struct {
	CCPairID           string                   `json:"cc_pair_id"`
	Name               string                   `json:"name"`
	Connector          ConnectorSnapshot        `json:"connector"`
	Credential         CredentialSnapshot       `json:"credential"`
	PublicDoc          bool                     `json:"public_doc"`
	LastStatus         *domain.IndexingStatus   `json:"last_status,omitempty"`
	LastSuccess        *time.Time               `json:"last_success,omitempty"`
	DocsIndexed        int64                    `json:"docs_indexed"`
	ErrorMsg           string                   `json:"error_msg,omitempty"`
	LatestIndexAttempt *IndexAttemptSnapshot    `json:"latest_index_attempt,omitempty"`
	DeletionAttempt    *DeletionAttemptSnapshot `json:"deletion_attempt,omitempty"`
	IsDeletable        bool                     `json:"is_deletable"`
}

// Snapshot builds one status snapshot per pair, excluding the reserved
// default pair, in the pairs' stored order.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []IndexingStatusSnapshot: one snapshot per reported pair.
//   - error: non-nil if any lookup fails.
func (s *StatusService) Snapshot(ctx context.Context) ([]IndexingStatusSnapshot, error) {
	pairs, err := s.ccPairRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	identifiers := make([]domain.PairIdentifier, 0, len(pairs))
	for i := range pairs {
		identifiers = append(identifiers, pairs[i].Identifier())
	}

	latestAttempts, err := s.attemptRepo.LatestForPairs(ctx, identifiers)
	if err != nil {
		return nil, err
	}
	documentCounts, err := s.documentRepo.CountsForPairs(ctx, identifiers)
	if err != nil {
		return nil, err
	}

	snapshots := make([]IndexingStatusSnapshot, 0, len(pairs))
	for i := range pairs {
		pair := &pairs[i]
		if pair.Name == s.reservedPairName {
			continue
		}

		key := pair.Identifier()

		var latest *IndexAttemptSnapshot
		errorMsg := ""
		var latestStatus *domain.IndexingStatus
		if attempt, ok := latestAttempts[key]; ok {
			latest = &IndexAttemptSnapshot{
				ID:             attempt.ID,
				Status:         attempt.Status,
				FromBeginning:  attempt.FromBeginning,
				NewDocsIndexed: attempt.NewDocsIndexed,
				ErrorMsg:       attempt.ErrorMsg,
				TimeStarted:    attempt.TimeStarted,
				CreatedAt:      attempt.CreatedAt,
			}
			errorMsg = attempt.ErrorMsg
			status := attempt.Status
			latestStatus = &status
		}

		deletion, err := s.deletionRepo.LatestForPair(ctx, pair.ConnectorID, pair.CredentialID)
		if err != nil {
			return nil, err
		}
		var deletionSnapshot *DeletionAttemptSnapshot
		if deletion != nil && !deletion.Status.Finished() {
			deletionSnapshot = &DeletionAttemptSnapshot{
				ID:             deletion.ID,
				Status:         deletion.Status,
				NumDocsDeleted: deletion.NumDocsDeleted,
			}
		}

		snapshots = append(snapshots, IndexingStatusSnapshot{
			CCPairID:           pair.ID,
			Name:               pair.Name,
			Connector:          connectorSnapshot(&pair.Connector),
			Credential:         credentialSnapshot(&pair.Credential),
			PublicDoc:          pair.IsPublic,
			LastStatus:         pair.LastAttemptStatus,
			LastSuccess:        pair.LastSuccessfulIndexTime,
			DocsIndexed:        documentCounts[key],
			ErrorMsg:           errorMsg,
			LatestIndexAttempt: latest,
			DeletionAttempt:    deletionSnapshot,
			IsDeletable:        deletionAllowed(pair, latestStatus),
		})
	}

	logger.With(logger.Fields{
		logger.FieldCount: len(snapshots),
	}).Debug(ctx, "Built indexing status snapshots")

	return snapshots, nil
}

func connectorSnapshot(c *domain.Connector) ConnectorSnapshot {
	return ConnectorSnapshot{
		ID:          c.ID,
		Name:        c.Name,
		Source:      c.Source,
		InputType:   c.InputType,
		Config:      c.Config,
		RefreshFreq: c.RefreshFreq,
		Disabled:    c.Disabled,
		CreatedAt:   c.CreatedAt,
	}
}

func credentialSnapshot(c *domain.Credential) CredentialSnapshot {
	return CredentialSnapshot{
		ID:          c.ID,
		AdminPublic: c.AdminPublic,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
	}
}
