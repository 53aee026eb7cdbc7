package staging

import (
	"context"
	"fmt"

	"github.com/aqntks/paper-rag/internal/config"
	"github.com/aqntks/paper-rag/internal/storage"
)

// NewStager creates a Stager based on the configured backend.
// Parameters:
//   - cfg: staging configuration selecting the backend and its settings.
// Returns:
//   - Stager: initialized staging adapter.
//   - error: non-nil for an unknown backend or a storage setup failure.
func NewStager(cfg *config.StagingConfig) (Stager, error) {
	switch cfg.Backend {
	case "upload":
		return NewUploadAdapter(cfg.Upload.Endpoint, cfg.Timeout), nil
	case "s3":
		store, err := storage.NewS3Storage(&storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			return nil, err
		}
		return NewS3Adapter(store, "papers", cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown staging backend %q", cfg.Backend)
	}
}
