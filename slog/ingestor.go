// Package slog provides logging decorators for the service interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"repopilot"
)

// Ensure LoggingIngestor implements repopilot.Ingestor.
var _ repopilot.Ingestor = (*LoggingIngestor)(nil)

// LoggingIngestor wraps an Ingestor with operational logging.
type LoggingIngestor struct {
	next   repopilot.Ingestor
	logger *slog.Logger
}

// NewLoggingIngestor creates a new LoggingIngestor.
func NewLoggingIngestor(next repopilot.Ingestor, logger *slog.Logger) *LoggingIngestor {
	return &LoggingIngestor{next: next, logger: logger}
}

// Ingest delegates to the wrapped Ingestor and logs the operation.
func (i *LoggingIngestor) Ingest(ctx context.Context, repoURL string) (snapshot *repopilot.Snapshot, err error) {
	defer func(begin time.Time) {
		if err != nil {
			i.logger.Error("ingest failed",
				"repo", repoURL,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		i.logger.Info("ingest",
			"repo", repoURL,
			"files", snapshot.FileCount,
			"skipped", snapshot.SkippedCount,
			"bytes", snapshot.TotalSize(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return i.next.Ingest(ctx, repoURL)
}
