package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aqntks/paper-rag/internal/source"
)

type feedEntry struct {
	id        string
	published time.Time
	updated   time.Time
}

// newFeedServer serves one page of Atom entries and records the query
// parameters of the last request.
func newFeedServer(t *testing.T, entries []feedEntry, lastQuery *map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastQuery != nil {
			q := map[string]string{}
			for key := range r.URL.Query() {
				q[key] = r.URL.Query().Get(key)
			}
			*lastQuery = q
		}

		var body strings.Builder
		for _, e := range entries {
			body.WriteString(fmt.Sprintf(`
  <entry>
    <id>http://arxiv.org/abs/%s</id>
    <published>%s</published>
    <updated>%s</updated>
    <title> Windowed Paper </title>
    <link href="http://example.com/pdf/%s" title="pdf" type="application/pdf"/>
    <category term="cs.AI"/>
  </entry>`, e.id, e.published.UTC().Format(time.RFC3339), e.updated.UTC().Format(time.RFC3339), e.id))
		}

		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <totalResults>%d</totalResults>%s
</feed>`, len(entries), body.String())
	}))
	t.Cleanup(server.Close)
	return server
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

// TestFetchWindowTermination verifies that production stops at the first
// entry whose relevant date falls outside the half-open window.
func TestFetchWindowTermination(t *testing.T) {
	entries := []feedEntry{
		{id: "2403.0001v1", published: day(2024, 3, 10), updated: day(2024, 3, 10)},
		{id: "2403.0002v1", published: day(2024, 3, 5), updated: day(2024, 3, 5)},
		// Out of window; everything after it must be dropped too.
		{id: "2402.0003v1", published: day(2024, 2, 1), updated: day(2024, 2, 1)},
		{id: "2403.0004v1", published: day(2024, 3, 7), updated: day(2024, 3, 7)},
	}
	server := newFeedServer(t, entries, nil)
	adapter := NewAdapter(&Config{BaseURL: server.URL})

	papers, err := adapter.Fetch(context.Background(), []string{"cs.AI"},
		day(2024, 3, 1), day(2024, 3, 15),
		source.SortBySubmitted, source.SortDescending)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("Expected 2 papers before window boundary, got %d", len(papers))
	}
	if papers[0].ID != "2403.0001v1" || papers[1].ID != "2403.0002v1" {
		t.Errorf("Unexpected papers: %s, %s", papers[0].ID, papers[1].ID)
	}
	if papers[0].Title != "Windowed Paper" {
		t.Errorf("Expected trimmed title, got %q", papers[0].Title)
	}
}

// TestFetchWindowIsHalfOpen verifies the boundary rule at day granularity:
// the start day is included and the end day is excluded.
func TestFetchWindowIsHalfOpen(t *testing.T) {
	entries := []feedEntry{
		{id: "start.day", published: day(2024, 3, 1), updated: day(2024, 3, 1)},
	}
	server := newFeedServer(t, entries, nil)
	adapter := NewAdapter(&Config{BaseURL: server.URL})

	papers, err := adapter.Fetch(context.Background(), []string{"cs.AI"},
		day(2024, 3, 1), day(2024, 3, 2),
		source.SortBySubmitted, source.SortAscending)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("Expected start-day paper to be included, got %d papers", len(papers))
	}

	// Same paper with the window ending on its own day: excluded.
	papers, err = adapter.Fetch(context.Background(), []string{"cs.AI"},
		day(2024, 2, 1), day(2024, 3, 1),
		source.SortBySubmitted, source.SortAscending)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(papers) != 0 {
		t.Fatalf("Expected end-day paper to be excluded, got %d papers", len(papers))
	}
}

// TestFetchSortParameters verifies the query parameter mapping and the
// soft failure on unsupported sort inputs.
func TestFetchSortParameters(t *testing.T) {
	var lastQuery map[string]string
	server := newFeedServer(t, nil, &lastQuery)
	adapter := NewAdapter(&Config{BaseURL: server.URL})
	ctx := context.Background()

	_, err := adapter.Fetch(ctx, []string{"cs.AI", "cs.CL"},
		day(2024, 3, 1), day(2024, 3, 15),
		source.SortByLastUpdated, source.SortAscending)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if lastQuery["sortBy"] != "lastUpdatedDate" {
		t.Errorf("Expected sortBy=lastUpdatedDate, got %q", lastQuery["sortBy"])
	}
	if lastQuery["sortOrder"] != "ascending" {
		t.Errorf("Expected sortOrder=ascending, got %q", lastQuery["sortOrder"])
	}
	if lastQuery["search_query"] != "cat:cs.AI OR cat:cs.CL" {
		t.Errorf("Unexpected search query %q", lastQuery["search_query"])
	}

	// Unsupported sort key: no error, no papers, no request.
	lastQuery = nil
	papers, err := adapter.Fetch(ctx, []string{"cs.AI"},
		day(2024, 3, 1), day(2024, 3, 15),
		source.SortBy("citations"), source.SortAscending)
	if err != nil {
		t.Fatalf("Expected soft failure for bad sort key, got error %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("Expected no papers for bad sort key, got %d", len(papers))
	}
	if lastQuery != nil {
		t.Error("Expected no API request for bad sort key")
	}
}

// TestFetchPDFLinkFallback verifies the abs-to-pdf URL rewrite when the feed
// entry carries no explicit pdf link.
func TestFetchPDFLinkFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2403.0009v2</id>
    <published>%[1]s</published>
    <updated>%[1]s</updated>
    <title>No PDF Link</title>
    <category term="cs.AI"/>
  </entry>
</feed>`, day(2024, 3, 5).Format(time.RFC3339))
	}))
	t.Cleanup(server.Close)

	adapter := NewAdapter(&Config{BaseURL: server.URL})
	papers, err := adapter.Fetch(context.Background(), []string{"cs.AI"},
		day(2024, 3, 1), day(2024, 3, 15),
		source.SortBySubmitted, source.SortDescending)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("Expected 1 paper, got %d", len(papers))
	}
	if papers[0].PDFURL != "http://arxiv.org/pdf/2403.0009v2" {
		t.Errorf("Unexpected pdf url %q", papers[0].PDFURL)
	}
	if papers[0].ID != "2403.0009v2" {
		t.Errorf("Unexpected id %q", papers[0].ID)
	}
}
