package staging

import (
	"context"
	"fmt"

	"github.com/aqntks/paper-rag/internal/source"
	"github.com/go-resty/resty/v2"
)

// fetchPDF downloads a paper's full document.
func fetchPDF(ctx context.Context, client *resty.Client, paper source.PaperRef) ([]byte, error) {
	resp, err := client.R().SetContext(ctx).Get(paper.PDFURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download pdf for %s: %w", paper.ID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pdf download for %s returned status %d", paper.ID, resp.StatusCode())
	}
	return resp.Body(), nil
}

// fileName builds the staged file name for a paper.
func fileName(paper source.PaperRef) string {
	return paper.ID + ".pdf"
}
