package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/domain"
	"github.com/aqntks/paper-rag/internal/source/arxiv"
	"github.com/aqntks/paper-rag/internal/staging"
)

// newFeedServer serves a single-page Atom feed with the given entry dates,
// plus the PDFs the entries link to.
func newFeedServer(t *testing.T, entryDates []time.Time) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/pdf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.5 test document")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var entries strings.Builder
		for i, date := range entryDates {
			stamp := date.UTC().Format(time.RFC3339)
			entries.WriteString(fmt.Sprintf(`
  <entry>
    <id>http://arxiv.org/abs/2403.0%04dv1</id>
    <published>%s</published>
    <updated>%s</updated>
    <title>Test Paper %d</title>
    <link href="%s/pdf/2403.0%04dv1" title="pdf" type="application/pdf"/>
    <category term="cs.AI"/>
  </entry>`, i+1, stamp, stamp, i+1, server.URL, i+1))
		}

		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <totalResults>%d</totalResults>%s
</feed>`, len(entryDates), entries.String())
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newUploadServer accepts multipart file uploads and answers with one staged
// path per file, recording how many files arrived.
func newUploadServer(t *testing.T, received *int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		files := r.MultipartForm.File["files"]
		*received = len(files)

		paths := make([]string, 0, len(files))
		for _, f := range files {
			paths = append(paths, "/app/files/"+f.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{"file_paths": paths})
	}))
	t.Cleanup(server.Close)
	return server
}

func newIngestEnv(t *testing.T, env *testEnv, feedURL, uploadURL string) *IngestService {
	t.Helper()

	cfg := &config.Config{
		Arxiv: config.ArxivConfig{
			BaseURL:    feedURL,
			Categories: []string{"cs.AI"},
			StartDate:  "2024-02-29",
			SortBy:     "submitted_date",
			SortOrder:  "descending",
			PageSize:   100,
			MaxResults: 1000,
		},
		Ingest: config.IngestConfig{
			PairNamePrefix:   "arxiv_",
			ReservedPairName: testReservedPair,
		},
	}

	paperSource := arxiv.NewAdapter(&arxiv.Config{
		BaseURL:    cfg.Arxiv.BaseURL,
		PageSize:   cfg.Arxiv.PageSize,
		MaxResults: cfg.Arxiv.MaxResults,
	})
	stager := staging.NewUploadAdapter(uploadURL, 10*time.Second)

	return NewIngestService(
		paperSource, stager,
		env.connectorRepo, env.credentialRepo, env.ccPairRepo,
		env.scheduler(), env.status(cfg.Ingest.ReservedPairName),
		cfg, env.log,
	)
}

// TestIngestRunEndToEnd drives one full run against stub arXiv and upload
// servers and checks every registration step left its mark in the catalog.
func TestIngestRunEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.seedModel(t)
	ctx := context.Background()

	yesterday := time.Now().AddDate(0, 0, -1)
	feedServer := newFeedServer(t, []time.Time{yesterday, yesterday.Add(-time.Hour)})

	var uploadedCount int
	uploadServer := newUploadServer(t, &uploadedCount)

	ingest := newIngestEnv(t, env, feedServer.URL, uploadServer.URL)

	result, err := ingest.Run(ctx, false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.PapersFound != 2 {
		t.Errorf("Expected 2 papers found, got %d", result.PapersFound)
	}
	if result.FilesStaged != 2 {
		t.Errorf("Expected 2 files staged, got %d", result.FilesStaged)
	}
	if uploadedCount != 2 {
		t.Errorf("Expected 2 files uploaded, got %d", uploadedCount)
	}
	if len(result.AttemptIDs) != 1 {
		t.Fatalf("Expected 1 scheduled attempt, got %d", len(result.AttemptIDs))
	}
	if !strings.HasPrefix(result.PairName, "arxiv_") {
		t.Errorf("Expected pair name with arxiv_ prefix, got %q", result.PairName)
	}

	connector, err := env.connectorRepo.GetByID(ctx, result.ConnectorID)
	if err != nil {
		t.Fatalf("Created connector not found: %v", err)
	}
	if connector.Source != domain.SourceFile {
		t.Errorf("Expected file connector, got %s", connector.Source)
	}
	locations, ok := connector.Config["file_locations"].([]interface{})
	if !ok {
		t.Fatalf("Expected file_locations in connector config, got %v", connector.Config)
	}
	if len(locations) != 2 {
		t.Errorf("Expected 2 staged locations in config, got %d", len(locations))
	}

	if len(result.Statuses) != 1 {
		t.Fatalf("Expected 1 status snapshot, got %d", len(result.Statuses))
	}
	snap := result.Statuses[0]
	if snap.CCPairID != result.CCPairID {
		t.Errorf("Expected snapshot for pair %s, got %s", result.CCPairID, snap.CCPairID)
	}
	if snap.LatestIndexAttempt == nil {
		t.Fatal("Expected latest attempt in snapshot")
	}
	if snap.LatestIndexAttempt.Status != domain.IndexingNotStarted {
		t.Errorf("Expected scheduled attempt status not_started, got %s", snap.LatestIndexAttempt.Status)
	}
}

// TestIngestRunEmptyWindow verifies a run with no papers in the window still
// registers its connector and schedules the attempt.
func TestIngestRunEmptyWindow(t *testing.T) {
	env := newTestEnv(t)
	env.seedModel(t)
	ctx := context.Background()

	feedServer := newFeedServer(t, nil)

	var uploadedCount int
	uploadServer := newUploadServer(t, &uploadedCount)

	ingest := newIngestEnv(t, env, feedServer.URL, uploadServer.URL)

	result, err := ingest.Run(ctx, false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.PapersFound != 0 {
		t.Errorf("Expected 0 papers, got %d", result.PapersFound)
	}
	if uploadedCount != 0 {
		t.Errorf("Expected no upload call payload, got %d files", uploadedCount)
	}
	if len(result.AttemptIDs) != 1 {
		t.Errorf("Expected 1 scheduled attempt, got %d", len(result.AttemptIDs))
	}

	connector, err := env.connectorRepo.GetByID(ctx, result.ConnectorID)
	if err != nil {
		t.Fatalf("Created connector not found: %v", err)
	}
	locations, ok := connector.Config["file_locations"].([]interface{})
	if !ok || len(locations) != 0 {
		t.Errorf("Expected empty file_locations, got %v", connector.Config["file_locations"])
	}
}
