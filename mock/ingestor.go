package mock

import (
	"context"

	"repopilot"
)

var _ repopilot.Ingestor = (*Ingestor)(nil)

// Ingestor is a mock implementation of repopilot.Ingestor.
type Ingestor struct {
	IngestFn func(ctx context.Context, repoURL string) (*repopilot.Snapshot, error)
}

func (i *Ingestor) Ingest(ctx context.Context, repoURL string) (*repopilot.Snapshot, error) {
	return i.IngestFn(ctx, repoURL)
}
