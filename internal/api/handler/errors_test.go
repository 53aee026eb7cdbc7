package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aqntks/paper-rag/internal/domain"
)

// TestStatusForError verifies the HTTP mapping of the domain error taxonomy.
func TestStatusForError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "connector not found", err: domain.ErrConnectorNotFound, want: http.StatusNotFound},
		{name: "credential not found", err: domain.ErrCredentialNotFound, want: http.StatusNotFound},
		{name: "name conflict", err: domain.ErrNameConflict, want: http.StatusBadRequest},
		{name: "invalid credential set", err: domain.ErrInvalidCredentialSet, want: http.StatusBadRequest},
		{name: "no valid credentials", err: domain.ErrNoValidCredentials, want: http.StatusBadRequest},
		{name: "nothing scheduled", err: domain.ErrNothingScheduled, want: http.StatusBadRequest},
		{name: "invalid connector spec", err: domain.ErrInvalidConnectorSpec, want: http.StatusBadRequest},
		{name: "wrapped domain error", err: fmt.Errorf("schedule: %w", domain.ErrNothingScheduled), want: http.StatusBadRequest},
		{name: "collaborator failure", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusForError(tc.err); got != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, got)
			}
		})
	}
}
