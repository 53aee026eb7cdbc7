package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/source"
	"github.com/go-resty/resty/v2"
)

const (
	SourceID   = "arxiv"
	SourceName = "arXiv"

	// DefaultBaseURL is the arXiv Atom API endpoint.
	DefaultBaseURL = "https://export.arxiv.org/api/query"
)

// sortCriterion maps source sort keys to arXiv API parameter values.
var sortCriterion = map[source.SortBy]string{
	source.SortByLastUpdated: "lastUpdatedDate",
	source.SortBySubmitted:   "submittedDate",
}

// sortDirection maps source sort orders to arXiv API parameter values.
var sortDirection = map[source.SortOrder]string{
	source.SortAscending:  "ascending",
	source.SortDescending: "descending",
}

// Config holds configuration for the arXiv adapter.
type Config struct {
	BaseURL    string
	PageSize   int
	MaxResults int
}

// Adapter implements the PaperSource interface against the arXiv Atom API.
type Adapter struct {
	client     *resty.Client
	baseURL    string
	pageSize   int
	maxResults int
}

// NewAdapter creates a new arXiv adapter.
func NewAdapter(cfg *Config) *Adapter {
	if cfg == nil {
		cfg = &Config{}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 1000
	}

	client := resty.New()
	client.SetHeader("Accept", "application/atom+xml")

	return &Adapter{
		client:     client,
		baseURL:    baseURL,
		pageSize:   pageSize,
		maxResults: maxResults,
	}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return SourceID
}

// GetDisplayName returns a human-readable name for this source.
func (a *Adapter) GetDisplayName() string {
	return SourceName
}

// Atom feed structures for the arXiv API response.
type atomFeed struct {
	XMLName      xml.Name    `xml:"feed"`
	TotalResults int         `xml:"totalResults"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Updated    string         `xml:"updated"`
	Published  string         `xml:"published"`
	Title      string         `xml:"title"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Fetch produces papers in the given categories whose relevant date lies in
// the half-open window [start, end), walking the API pages in sort order and
// stopping at the first out-of-window item. Unsupported sort parameters are
// logged as a warning and yield an empty result; the workflow is not failed
// for a misconfigured filter.
func (a *Adapter) Fetch(ctx context.Context, categories []string, start, end time.Time, by source.SortBy, order source.SortOrder) ([]source.PaperRef, error) {
	collected := []source.PaperRef{}

	sortBy, okBy := sortCriterion[by]
	sortOrder, okOrder := sortDirection[order]
	if !okBy || !okOrder {
		logger.CtxWarn(ctx, "Unsupported sort parameters, returning no papers: sort_by=%s, sort_order=%s", by, order)
		return collected, nil
	}

	terms := make([]string, 0, len(categories))
	for _, cat := range categories {
		terms = append(terms, "cat:"+cat)
	}
	query := strings.Join(terms, " OR ")

	startDate := dateOnly(start)
	endDate := dateOnly(end)

	for offset := 0; offset < a.maxResults; offset += a.pageSize {
		limit := a.pageSize
		if remaining := a.maxResults - offset; limit > remaining {
			limit = remaining
		}

		feed, err := a.fetchPage(ctx, query, sortBy, sortOrder, offset, limit)
		if err != nil {
			return nil, err
		}
		if len(feed.Entries) == 0 {
			break
		}

		for _, entry := range feed.Entries {
			ref, err := entry.toPaperRef()
			if err != nil {
				logger.CtxWarn(ctx, "Skipping malformed feed entry: id=%s, error=%v", entry.ID, err)
				continue
			}

			paperDate := dateOnly(ref.RelevantDate(by))
			if paperDate.Before(startDate) || !paperDate.Before(endDate) {
				// The feed is ordered on this date, so the first
				// out-of-window item terminates production.
				return collected, nil
			}
			collected = append(collected, ref)
		}

		if len(feed.Entries) < limit {
			break
		}
	}

	return collected, nil
}

// fetchPage requests one page of the Atom feed.
func (a *Adapter) fetchPage(ctx context.Context, query, sortBy, sortOrder string, offset, limit int) (*atomFeed, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"search_query": query,
			"sortBy":       sortBy,
			"sortOrder":    sortOrder,
			"start":        fmt.Sprintf("%d", offset),
			"max_results":  fmt.Sprintf("%d", limit),
		}).
		Get(a.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query arxiv API: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("arxiv API returned status %d", resp.StatusCode())
	}

	var feed atomFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("failed to parse arxiv feed: %w", err)
	}
	return &feed, nil
}

// toPaperRef converts an Atom entry into a PaperRef.
func (e *atomEntry) toPaperRef() (source.PaperRef, error) {
	published, err := time.Parse(time.RFC3339, e.Published)
	if err != nil {
		return source.PaperRef{}, fmt.Errorf("bad published date %q: %w", e.Published, err)
	}
	updated, err := time.Parse(time.RFC3339, e.Updated)
	if err != nil {
		return source.PaperRef{}, fmt.Errorf("bad updated date %q: %w", e.Updated, err)
	}

	// Entry ids look like http://arxiv.org/abs/2403.01234v1
	id := e.ID
	if idx := strings.LastIndex(id, "/"); idx != -1 {
		id = id[idx+1:]
	}
	if id == "" {
		return source.PaperRef{}, fmt.Errorf("entry has no id")
	}

	pdfURL := ""
	for _, link := range e.Links {
		if link.Title == "pdf" || link.Type == "application/pdf" {
			pdfURL = link.Href
			break
		}
	}
	if pdfURL == "" {
		pdfURL = strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}

	categories := make([]string, 0, len(e.Categories))
	for _, cat := range e.Categories {
		categories = append(categories, cat.Term)
	}

	return source.PaperRef{
		ID:         id,
		Title:      strings.TrimSpace(e.Title),
		PDFURL:     pdfURL,
		Published:  published,
		Updated:    updated,
		Categories: categories,
	}, nil
}

// dateOnly truncates a timestamp to its UTC calendar date. The window rule
// operates at day granularity.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
