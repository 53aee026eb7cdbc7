package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aqntks/paper-rag/internal/api/middleware"
	"github.com/aqntks/paper-rag/internal/service"
)

// IngestHandler handles ingestion run and status endpoints
type IngestHandler struct {
	ingestService *service.IngestService
	statusService *service.StatusService
}

// NewIngestHandler creates a new ingest handler.
// Parameters:
//   - ingestService: end-to-end ingestion orchestrator.
//   - statusService: read-only status aggregator.
// Returns:
//   - *IngestHandler: initialized handler.
func NewIngestHandler(ingestService *service.IngestService, statusService *service.StatusService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		statusService: statusService,
	}
}

// runRequest is the optional body of POST /ingest/run.
type runRequest struct {
	FromBeginning bool `json:"from_beginning"`
}

// Run executes one synchronous ingestion run and returns the resulting
// indexing status snapshots.
func (h *IngestHandler) Run(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req runRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			log.WithError(err).Warnf("Invalid ingest run request body")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	result, err := h.ingestService.Run(c.Request.Context(), req.FromBeginning)
	if err != nil {
		log.WithError(err).Errorf("Ingestion run failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Statuses)
}

// Status returns the current indexing status snapshots without starting a run.
func (h *IngestHandler) Status(c *gin.Context) {
	log := middleware.GetLogger(c)

	snapshots, err := h.statusService.Snapshot(c.Request.Context())
	if err != nil {
		log.WithError(err).Errorf("Failed to build status snapshots")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshots)
}
