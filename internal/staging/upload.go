package staging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aqntks/paper-rag/internal/logger"
	"github.com/aqntks/paper-rag/internal/source"
	"github.com/go-resty/resty/v2"
)

// UploadAdapter stages papers by pushing them to the indexing platform's
// file-upload endpoint in one multipart request. The platform writes the
// files to its own store and answers with their paths, which become the
// stable locations.
type UploadAdapter struct {
	client   *resty.Client
	endpoint string
}

// uploadResponse is the platform's answer to a file upload.
type uploadResponse struct {
	FilePaths []string `json:"file_paths"`
}

// NewUploadAdapter creates a new upload staging adapter.
// Parameters:
//   - endpoint: file-upload endpoint URL of the indexing platform.
//   - timeout: per-request timeout covering download and upload.
// Returns:
//   - *UploadAdapter: initialized adapter.
func NewUploadAdapter(endpoint string, timeout time.Duration) *UploadAdapter {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &UploadAdapter{
		client:   client,
		endpoint: endpoint,
	}
}

// Stage downloads each paper's PDF and uploads the batch to the platform.
// Returns the file paths reported by the platform, or an upload error that
// aborts the workflow.
func (a *UploadAdapter) Stage(ctx context.Context, papers []source.PaperRef) ([]string, error) {
	if len(papers) == 0 {
		return []string{}, nil
	}

	req := a.client.R().SetContext(ctx)
	for _, paper := range papers {
		data, err := fetchPDF(ctx, a.client, paper)
		if err != nil {
			return nil, err
		}
		req.SetFileReader("files", fileName(paper), bytes.NewReader(data))
	}

	resp, err := req.Post(a.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to upload files: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("file upload returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(resp.Body(), &uploaded); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}
	if len(uploaded.FilePaths) != len(papers) {
		logger.CtxWarn(ctx, "Upload response path count mismatch: sent=%d, returned=%d",
			len(papers), len(uploaded.FilePaths))
	}

	return uploaded.FilePaths, nil
}
