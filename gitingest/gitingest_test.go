package gitingest

import (
	"context"
	"os"
	"testing"

	"repopilot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestor_Ingest(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-GitHub URLs", func(t *testing.T) {
		t.Parallel()

		ing := New()

		_, err := ing.Ingest(context.Background(), "https://gitlab.com/example/repo")
		require.Error(t, err)
		assert.Equal(t, repopilot.EINVALID, repopilot.ErrorCode(err))
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()

		ing := New()

		_, err := ing.Ingest(context.Background(), "  ")
		require.Error(t, err)
		assert.Equal(t, repopilot.EINVALID, repopilot.ErrorCode(err))
	})

	t.Run("scans a cloned checkout", func(t *testing.T) {
		t.Parallel()

		ing := New()
		ing.cloneFn = func(ctx context.Context, url, dir string) error {
			return os.WriteFile(dir+"/main.go", []byte("package main\n"), 0o644)
		}

		snapshot, err := ing.Ingest(context.Background(), "https://github.com/example/repo")
		require.NoError(t, err)

		assert.Equal(t, 1, snapshot.FileCount)
		assert.Contains(t, snapshot.Summary, "Repository: example/repo")
	})

	t.Run("propagates clone errors", func(t *testing.T) {
		t.Parallel()

		ing := New()
		ing.cloneFn = func(ctx context.Context, url, dir string) error {
			return repopilot.Errorf(repopilot.ENOTFOUND, "repository not found: %s", url)
		}

		_, err := ing.Ingest(context.Background(), "https://github.com/example/missing")
		require.Error(t, err)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))
	})
}

func TestRepoName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/example/repo", "example/repo"},
		{"https://github.com/example/repo.git", "example/repo"},
		{"https://github.com/example/repo/", "example/repo"},
		{"http://github.com/a/b", "a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, repoName(tt.url), tt.url)
	}
}
