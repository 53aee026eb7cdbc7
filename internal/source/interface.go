package source

import (
	"context"
	"time"
)

// SortBy selects which date a paper is ordered and windowed on.
type SortBy string

const (
	SortByLastUpdated SortBy = "last_updated_date"
	SortBySubmitted   SortBy = "submitted_date"
)

// SortOrder selects the direction papers are produced in.
type SortOrder string

const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// PaperRef represents one paper reference produced by a source.
type PaperRef struct {
	ID         string // Unique ID within the source, e.g. "2403.01234v1"
	Title      string
	PDFURL     string // Location the full document can be fetched from
	Published  time.Time
	Updated    time.Time
	Categories []string
}

// RelevantDate returns the date the windowing rule applies to: the updated
// date when sorting by last update, the published date otherwise.
func (p PaperRef) RelevantDate(by SortBy) time.Time {
	if by == SortByLastUpdated {
		return p.Updated
	}
	return p.Published
}

// PaperSource defines the interface for paper data sources.
type PaperSource interface {
	// GetSourceID returns the unique identifier for this source.
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	GetDisplayName() string

	// Fetch produces the papers in the given categories whose relevant date
	// lies in the half-open window [start, end). Production stops at the
	// first item whose relevant date falls outside the window. Invalid sort
	// parameters yield an empty result and a logged warning, not an error;
	// the returned error covers transport and decoding failures only.
	Fetch(ctx context.Context, categories []string, start, end time.Time, by SortBy, order SortOrder) ([]PaperRef, error)
}
