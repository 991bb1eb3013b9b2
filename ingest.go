package repopilot

import (
	"context"
	"strings"
)

// Snapshot is the result of ingesting a repository: a human-readable
// summary, an indented file tree, and the concatenated file contents.
type Snapshot struct {
	Summary string
	Tree    string
	Content string

	// FileCount is the number of files included in Content.
	FileCount int

	// SkippedCount is the number of files excluded by pattern, size, or
	// duplicate detection.
	SkippedCount int
}

// TotalSize returns the combined size of the snapshot in bytes.
func (s *Snapshot) TotalSize() int {
	return len(s.Summary) + len(s.Tree) + len(s.Content)
}

// Ingestor produces a Snapshot from a remote repository.
type Ingestor interface {
	// Ingest clones and scans the repository at repoURL.
	// The context controls timeout and cancellation.
	Ingest(ctx context.Context, repoURL string) (*Snapshot, error)
}

// ValidateRepoURL returns an error unless repoURL points at a GitHub
// repository over HTTP(S). Only GitHub repositories are supported.
func ValidateRepoURL(repoURL string) error {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return Errorf(EINVALID, "repository URL required")
	}
	if !strings.HasPrefix(repoURL, "https://github.com/") &&
		!strings.HasPrefix(repoURL, "http://github.com/") {
		return Errorf(EINVALID, "only GitHub repositories are supported")
	}
	return nil
}
