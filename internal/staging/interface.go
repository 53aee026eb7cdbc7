package staging

import (
	"context"

	"github.com/aqntks/paper-rag/internal/source"
)

// Stager persists fetched documents to durable storage and returns their
// stable locations. The locations end up inside the connector's
// source-specific config so the indexing worker can find the files.
type Stager interface {
	// Stage downloads and persists the given papers. The returned slice is
	// ordered like the input. Any failure aborts the whole staging step;
	// partial results are never returned.
	Stage(ctx context.Context, papers []source.PaperRef) ([]string, error)
}
