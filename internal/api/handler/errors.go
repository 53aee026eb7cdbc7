package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aqntks/paper-rag/internal/domain"
)

// statusForError maps domain errors onto HTTP status codes. Anything not in
// the taxonomy is a collaborator failure and reported as 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrConnectorNotFound),
		errors.Is(err, domain.ErrCredentialNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNameConflict),
		errors.Is(err, domain.ErrInvalidCredentialSet),
		errors.Is(err, domain.ErrNoValidCredentials),
		errors.Is(err, domain.ErrNothingScheduled),
		errors.Is(err, domain.ErrInvalidConnectorSpec):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{
		"error": err.Error(),
	})
}
