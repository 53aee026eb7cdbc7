package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/repository"
	"github.com/aqntks/paper-rag/internal/source"
	"github.com/aqntks/paper-rag/internal/staging"
)

const startDateLayout = "2006-01-02"

// IngestService drives one end-to-end ingestion run: fetch paper references
// from the configured source, stage their documents, register a file
// connector and credential for the staged batch, bind them under a fresh
// pair name, schedule the indexing run, and report the resulting status.
type IngestService struct {
	source         source.PaperSource
	stager         staging.Stager
	connectorRepo  *repository.ConnectorRepository
	credentialRepo *repository.CredentialRepository
	ccPairRepo     *repository.CCPairRepository
	scheduler      *SchedulerService
	status         *StatusService
	cfg            *config.Config
	logger         *logger.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	src source.PaperSource,
	stager staging.Stager,
	connectorRepo *repository.ConnectorRepository,
	credentialRepo *repository.CredentialRepository,
	ccPairRepo *repository.CCPairRepository,
	scheduler *SchedulerService,
	status *StatusService,
	cfg *config.Config,
	log *logger.Logger,
) *IngestService {
	return &IngestService{
		source:         src,
		stager:         stager,
		connectorRepo:  connectorRepo,
		credentialRepo: credentialRepo,
		ccPairRepo:     ccPairRepo,
		scheduler:      scheduler,
		status:         status,
		cfg:            cfg,
		logger:         log,
	}
}

// RunResult summarizes one completed ingestion run.
type RunResult struct {
	RunID        string                   `json:"run_id"`
	ConnectorID  string                   `json:"connector_id"`
	CredentialID string                   `json:"credential_id"`
	CCPairID     string                   `json:"cc_pair_id"`
	PairName     string                   `json:"pair_name"`
	PapersFound  int                      `json:"papers_found"`
	FilesStaged  int                      `json:"files_staged"`
	AttemptIDs   []string                 `json:"attempt_ids"`
	Statuses     []IndexingStatusSnapshot `json:"statuses"`
}

// Run executes one full ingestion workflow.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - fromBeginning: when true, the scheduled run reindexes everything.
// Returns:
//   - *RunResult: summary of the run, including status snapshots.
//   - error: first failed step's error; later steps are not attempted.
func (s *IngestService) Run(ctx context.Context, fromBeginning bool) (*RunResult, error) {
	runID := uuid.New().String()
	ctx = logger.SetRunID(ctx, runID)
	startedAt := time.Now()

	logger.CtxInfo(ctx, "Starting ingestion run: source=%s", s.source.GetSourceID())

	startDate, err := time.Parse(startDateLayout, s.cfg.Arxiv.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", s.cfg.Arxiv.StartDate, err)
	}
	endDate := time.Now().UTC()

	papers, err := s.source.Fetch(ctx, s.cfg.Arxiv.Categories, startDate, endDate,
		source.SortBy(s.cfg.Arxiv.SortBy), source.SortOrder(s.cfg.Arxiv.SortOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch papers: %w", err)
	}
	if len(papers) == 0 {
		// An empty window is normal, not an error. The run still registers
		// its connector so the batch shows up in status reports.
		logger.CtxWarn(ctx, "No papers found in window: start=%s, end=%s",
			startDate.Format(startDateLayout), endDate.Format(startDateLayout))
	}

	locations, err := s.stager.Stage(ctx, papers)
	if err != nil {
		return nil, fmt.Errorf("failed to stage papers: %w", err)
	}

	now := time.Now()
	connector := &domain.Connector{
		Name:      fmt.Sprintf("FileConnector-%d", now.UnixMilli()),
		Source:    domain.SourceFile,
		InputType: domain.InputLoadState,
		Config: domain.ConnectorConfig{
			"file_locations": locations,
		},
	}
	if err := s.connectorRepo.Create(ctx, connector); err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	ctx = logger.SetConnectorID(ctx, connector.ID)

	credential := &domain.Credential{
		CredentialJSON: domain.CredentialJSON{},
		AdminPublic:    true,
	}
	if err := s.credentialRepo.Create(ctx, credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	pairName := s.cfg.Ingest.PairNamePrefix + now.Format("2006:01:02::15:04:05")
	pair, err := s.ccPairRepo.Bind(ctx, connector.ID, credential.ID, pairName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind connector and credential: %w", err)
	}

	attemptIDs, err := s.scheduler.Schedule(ctx, ScheduleRequest{
		ConnectorID:   connector.ID,
		CredentialIDs: []string{credential.ID},
		FromBeginning: fromBeginning,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule indexing: %w", err)
	}

	snapshots, err := s.status.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build status snapshots: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(startedAt).Milliseconds(),
		logger.FieldCount:      len(papers),
	}).Info(ctx, "Ingestion run complete: pair=%s, attempts=%d", pairName, len(attemptIDs))

	return &RunResult{
		RunID:        runID,
		ConnectorID:  connector.ID,
		CredentialID: credential.ID,
		CCPairID:     pair.ID,
		PairName:     pairName,
		PapersFound:  len(papers),
		FilesStaged:  len(locations),
		AttemptIDs:   attemptIDs,
		Statuses:     snapshots,
	}, nil
}
