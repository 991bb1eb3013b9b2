package main_test

import (
	"bytes"
	"context"
	"testing"

	"repopilot"
	main "repopilot/cmd/repopilot"
	"repopilot/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates a session from a repository snapshot", func(t *testing.T) {
		t.Parallel()

		ingestor := &mock.Ingestor{
			IngestFn: func(_ context.Context, repoURL string) (*repopilot.Snapshot, error) {
				return &repopilot.Snapshot{
					Summary:   "Repository: example\nFiles analyzed: 2\nTotal size: 1.0KB",
					Tree:      "example/\n└── main.go",
					Content:   "package main",
					FileCount: 2,
				}, nil
			},
		}

		var created *repopilot.Session
		sessions := &mock.SessionService{
			CreateSessionFn: func(_ context.Context, s *repopilot.Session) error {
				s.ID = "sess-1"
				created = s
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sessions: sessions,
			Ingestor: ingestor,
		}

		cmd := &main.IngestCmd{URL: "https://github.com/octocat/example"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "https://github.com/octocat/example", created.RepoURL)
		assert.Equal(t, len("package main"), created.ContentSize)
		assert.Contains(t, stdout.String(), "sess-1")
		assert.Contains(t, stdout.String(), "Files analyzed: 2")
		assert.Empty(t, stderr.String())
	})

	t.Run("reports token estimate when a counter is wired", func(t *testing.T) {
		t.Parallel()

		ingestor := &mock.Ingestor{
			IngestFn: func(_ context.Context, _ string) (*repopilot.Snapshot, error) {
				return &repopilot.Snapshot{Summary: "Repository: example", Content: "package main"}, nil
			},
		}
		sessions := &mock.SessionService{
			CreateSessionFn: func(_ context.Context, s *repopilot.Session) error {
				s.ID = "sess-1"
				return nil
			},
		}
		tokens := &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) {
				return 42, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Sessions: sessions,
			Ingestor: ingestor,
			Tokens:   tokens,
		}

		cmd := &main.IngestCmd{URL: "https://github.com/octocat/example"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Estimated tokens: 42")
	})

	t.Run("rejects non-GitHub URLs before cloning", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: stderr,
		}

		cmd := &main.IngestCmd{URL: "https://gitlab.com/foo/bar"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, repopilot.EINVALID, repopilot.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("reports clone failures", func(t *testing.T) {
		t.Parallel()

		ingestor := &mock.Ingestor{
			IngestFn: func(_ context.Context, _ string) (*repopilot.Snapshot, error) {
				return nil, repopilot.Errorf(repopilot.ENOTFOUND, "repository not found")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   stderr,
			Ingestor: ingestor,
		}

		cmd := &main.IngestCmd{URL: "https://github.com/octocat/missing"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "repository not found")
	})
}
