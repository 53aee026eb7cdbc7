package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aqntks/paper-rag/internal/api/middleware"
	"github.com/aqntks/paper-rag/internal/service"
)

// ConnectorHandler handles scheduling runs for existing connectors
type ConnectorHandler struct {
	scheduler *service.SchedulerService
}

// NewConnectorHandler creates a new connector handler
func NewConnectorHandler(scheduler *service.SchedulerService) *ConnectorHandler {
	return &ConnectorHandler{scheduler: scheduler}
}

// runConnectorRequest is the body of POST /connectors/:id/run.
type runConnectorRequest struct {
	CredentialIDs []string `json:"credential_ids"`
	FromBeginning bool     `json:"from_beginning"`
}

// Run schedules index attempts for the connector's credentials.
func (h *ConnectorHandler) Run(c *gin.Context) {
	log := middleware.GetLogger(c)

	connectorID := c.Param("id")

	var req runConnectorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			log.WithError(err).Warnf("Invalid connector run request body")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	attemptIDs, err := h.scheduler.Schedule(c.Request.Context(), service.ScheduleRequest{
		ConnectorID:   connectorID,
		CredentialIDs: req.CredentialIDs,
		FromBeginning: req.FromBeginning,
	})
	if err != nil {
		log.WithError(err).Warnf("Failed to schedule connector run: connector_id=%s", connectorID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Successfully created indexing attempts",
		"attempt_ids": attemptIDs,
	})
}
