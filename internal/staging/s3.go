package staging

import (
	"bytes"
	"context"
	"time"

	"github.com/aqntks/paper-rag/internal/source"
	"github.com/aqntks/paper-rag/internal/storage"
	"github.com/go-resty/resty/v2"
)

// S3Adapter stages papers by streaming each PDF into an S3-compatible
// bucket. The stable locations are the objects' public URLs.
type S3Adapter struct {
	client    *resty.Client
	store     storage.ObjectStorage
	keyPrefix string
}

// NewS3Adapter creates a new S3 staging adapter.
// Parameters:
//   - store: object storage the PDFs are written to.
//   - keyPrefix: key prefix for staged objects, e.g. "papers".
//   - timeout: per-download timeout.
// Returns:
//   - *S3Adapter: initialized adapter.
func NewS3Adapter(store storage.ObjectStorage, keyPrefix string, timeout time.Duration) *S3Adapter {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &S3Adapter{
		client:    client,
		store:     store,
		keyPrefix: keyPrefix,
	}
}

// Stage downloads each paper's PDF and uploads it to the bucket. Returns the
// objects' URLs in input order; the first failure aborts staging.
func (a *S3Adapter) Stage(ctx context.Context, papers []source.PaperRef) ([]string, error) {
	locations := make([]string, 0, len(papers))
	for _, paper := range papers {
		data, err := fetchPDF(ctx, a.client, paper)
		if err != nil {
			return nil, err
		}

		key := fileName(paper)
		if a.keyPrefix != "" {
			key = a.keyPrefix + "/" + key
		}
		if err := a.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
			return nil, err
		}
		locations = append(locations, a.store.GetURL(key))
	}
	return locations, nil
}
