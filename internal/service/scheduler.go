package service

import (
	"context"

	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/repository"
)

// SchedulerService decides, per credential bound to a connector, whether a
// new indexing run should be created. The duplicate-run guard is best-effort:
// it observes attempts created by earlier completed calls, but two concurrent
// calls for the same credential may both create an attempt.
type SchedulerService struct {
	ccPairRepo  *repository.CCPairRepository
	attemptRepo *repository.IndexAttemptRepository
	modelRepo   *repository.EmbeddingModelRepository
	logger      *logger.Logger
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(
	ccPairRepo *repository.CCPairRepository,
	attemptRepo *repository.IndexAttemptRepository,
	modelRepo *repository.EmbeddingModelRepository,
	log *logger.Logger,
) *SchedulerService {
	return &SchedulerService{
		ccPairRepo:  ccPairRepo,
		attemptRepo: attemptRepo,
		modelRepo:   modelRepo,
		logger:      log,
	}
}

// ScheduleRequest describes one scheduling call.
type ScheduleRequest struct {
	ConnectorID string `json:"connector_id"`
	// CredentialIDs restricts scheduling to a subset of the connector's
	// bound credentials; empty means all of them.
	CredentialIDs []string `json:"credential_ids,omitempty"`
	FromBeginning bool     `json:"from_beginning"`
}

// Schedule creates index attempts for the connector's credentials.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: connector, optional credential subset, and from-beginning flag.
// Returns:
//   - []string: ids of the created attempts.
//   - error: domain.ErrConnectorNotFound, domain.ErrInvalidCredentialSet,
//     domain.ErrNoValidCredentials, domain.ErrNothingScheduled, or a
//     storage error.
func (s *SchedulerService) Schedule(ctx context.Context, req ScheduleRequest) ([]string, error) {
	possibleIDs, err := s.ccPairRepo.CredentialIDsForConnector(ctx, req.ConnectorID)
	if err != nil {
		return nil, err
	}

	credentialIDs := possibleIDs
	if len(req.CredentialIDs) > 0 {
		if !isSubset(req.CredentialIDs, possibleIDs) {
			return nil, domain.ErrInvalidCredentialSet
		}
		credentialIDs = req.CredentialIDs
	}

	if len(credentialIDs) == 0 {
		return nil, domain.ErrNoValidCredentials
	}

	embeddingModel, err := s.modelRepo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	attemptIDs := make([]string, 0, len(credentialIDs))
	for _, credentialID := range credentialIDs {
		// Skip credentials with a run already in flight for the current
		// model. Finished attempts never block.
		unfinished, err := s.attemptRepo.HasUnfinished(ctx, req.ConnectorID, credentialID, embeddingModel.ID)
		if err != nil {
			return nil, err
		}
		if unfinished {
			logger.CtxInfo(ctx, "Skipping credential with index attempt in flight: connector_id=%s, credential_id=%s",
				req.ConnectorID, credentialID)
			continue
		}

		attempt := &domain.IndexAttempt{
			ConnectorID:      req.ConnectorID,
			CredentialID:     credentialID,
			EmbeddingModelID: embeddingModel.ID,
			FromBeginning:    req.FromBeginning,
		}
		if err := s.attemptRepo.Create(ctx, attempt); err != nil {
			return nil, err
		}
		attemptIDs = append(attemptIDs, attempt.ID)
	}

	if len(attemptIDs) == 0 {
		return nil, domain.ErrNothingScheduled
	}

	logger.With(logger.Fields{
		logger.FieldCount: len(attemptIDs),
	}).Info(ctx, "Created index attempts: connector_id=%s, embedding_model=%s",
		req.ConnectorID, embeddingModel.ModelName)

	return attemptIDs, nil
}

// isSubset reports whether every element of sub occurs in full.
func isSubset(sub, full []string) bool {
	set := make(map[string]bool, len(full))
	for _, id := range full {
		set[id] = true
	}
	for _, id := range sub {
		if !set[id] {
			return false
		}
	}
	return true
}
