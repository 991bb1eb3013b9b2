// Package gitingest turns a remote GitHub repository into a text snapshot
// suitable for prompting a language model: a summary, a file tree, and the
// concatenated contents of its source files.
package gitingest

import (
	"context"
	"errors"
	"os"
	"strings"

	"repopilot"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Compile-time interface verification.
var _ repopilot.Ingestor = (*Ingestor)(nil)

// DefaultMaxFileSize is the largest individual file included in a snapshot.
const DefaultMaxFileSize = 10 << 20 // 10MB

// Ingestor clones GitHub repositories and scans them into snapshots.
type Ingestor struct {
	maxFileSize int64

	// cloneFn is swapped in tests to avoid network access.
	cloneFn func(ctx context.Context, url, dir string) error
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithMaxFileSize overrides the per-file size cutoff.
func WithMaxFileSize(n int64) Option {
	return func(ing *Ingestor) { ing.maxFileSize = n }
}

// New creates an Ingestor with default settings.
func New(opts ...Option) *Ingestor {
	ing := &Ingestor{
		maxFileSize: DefaultMaxFileSize,
	}
	ing.cloneFn = ing.clone
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest clones the repository at repoURL into a temporary directory and
// scans it. The clone is shallow; history is not needed for a snapshot.
func (ing *Ingestor) Ingest(ctx context.Context, repoURL string) (*repopilot.Snapshot, error) {
	if err := repopilot.ValidateRepoURL(repoURL); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "repopilot-ingest-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := ing.cloneFn(ctx, repoURL, dir); err != nil {
		return nil, err
	}

	return Scan(dir, repoName(repoURL), ing.maxFileSize)
}

func (ing *Ingestor) clone(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return repopilot.Errorf(repopilot.ETIMEOUT, "repository ingestion timed out, the repository might be too large or complex")
	}
	if errors.Is(err, transport.ErrRepositoryNotFound) {
		return repopilot.Errorf(repopilot.ENOTFOUND, "repository not found: %s", url)
	}
	if errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed) {
		return repopilot.Errorf(repopilot.EUNAUTHORIZED, "repository requires authentication: %s", url)
	}
	return repopilot.Errorf(repopilot.EUNAVAILABLE, "failed to clone repository: %v", err)
}

// repoName extracts the owner/name part of a GitHub URL for display.
func repoName(repoURL string) string {
	s := strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	return s
}
