package sqlite_test

import (
	"context"
	"testing"
	"time"

	"repopilot"
	"repopilot/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestSession(t *testing.T, svc *sqlite.SessionService, repoURL string) *repopilot.Session {
	t.Helper()
	session := &repopilot.Session{
		RepoURL:     repoURL,
		Summary:     "Repository: test\nFiles analyzed: 3",
		Tree:        "src/\n  main.go",
		Content:     "package main",
		ContentSize: 12,
	}
	require.NoError(t, svc.CreateSession(context.Background(), session))
	return session
}

func TestSessionService_CreateSession(t *testing.T) {
	t.Parallel()

	t.Run("creates session with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		session := &repopilot.Session{
			RepoURL: "https://github.com/example/repo",
			Summary: "summary",
			Content: "content",
		}

		err := svc.CreateSession(context.Background(), session)
		require.NoError(t, err)

		assert.NotEmpty(t, session.ID, "ID should be generated")
		assert.False(t, session.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.False(t, session.LastAccessed.IsZero(), "LastAccessed should be set")
	})

	t.Run("returns error for invalid session", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		err := svc.CreateSession(context.Background(), &repopilot.Session{})
		require.Error(t, err)
		assert.Equal(t, repopilot.EINVALID, repopilot.ErrorCode(err))
	})
}

func TestSessionService_FindSessionByID(t *testing.T) {
	t.Parallel()

	t.Run("finds existing session", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)
		created := createTestSession(t, svc, "https://github.com/example/repo")

		found, err := svc.FindSessionByID(context.Background(), created.ID)
		require.NoError(t, err)

		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, created.RepoURL, found.RepoURL)
		assert.Equal(t, created.Summary, found.Summary)
		assert.Equal(t, created.Content, found.Content)
	})

	t.Run("returns ENOTFOUND for missing session", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		_, err := svc.FindSessionByID(context.Background(), "no-such-id")
		require.Error(t, err)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))
	})
}

func TestSessionService_FindSessions(t *testing.T) {
	t.Parallel()

	t.Run("lists sessions most recently accessed first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)
		older := createTestSession(t, svc, "https://github.com/example/older")
		newer := createTestSession(t, svc, "https://github.com/example/newer")

		past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
		_, err := db.ExecContext(context.Background(),
			`UPDATE sessions SET last_accessed = ? WHERE id = ?`, past, older.ID)
		require.NoError(t, err)

		sessions, err := svc.FindSessions(context.Background())
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, newer.ID, sessions[0].ID)
		assert.Equal(t, older.ID, sessions[1].ID)

		// Snapshot bodies are not loaded, sizes are.
		assert.Empty(t, sessions[0].Content)
		assert.Equal(t, 12, sessions[0].ContentSize)
	})

	t.Run("returns empty list for empty store", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		sessions, err := svc.FindSessions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}

func TestSessionService_TouchSession(t *testing.T) {
	t.Parallel()

	t.Run("updates last accessed and request count", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)
		session := createTestSession(t, svc, "https://github.com/example/repo")

		// Backdate so the touch is observable.
		past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
		_, err := db.ExecContext(context.Background(), `UPDATE sessions SET last_accessed = ?`, past)
		require.NoError(t, err)

		require.NoError(t, svc.TouchSession(context.Background(), session.ID))

		found, err := svc.FindSessionByID(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.RequestCount)
		assert.True(t, found.LastAccessed.After(time.Now().Add(-time.Minute)))
	})

	t.Run("returns ENOTFOUND for missing session", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		err := svc.TouchSession(context.Background(), "no-such-id")
		require.Error(t, err)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))
	})
}

func TestSessionService_UpdateSessionContent(t *testing.T) {
	t.Parallel()

	t.Run("replaces stored content", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)
		session := createTestSession(t, svc, "https://github.com/example/repo")

		err := svc.UpdateSessionContent(context.Background(), session.ID, "shrunk")
		require.NoError(t, err)

		found, err := svc.FindSessionByID(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, "shrunk", found.Content)
		// content_size keeps the pre-truncation size from ingestion.
		assert.Equal(t, 12, found.ContentSize)
	})

	t.Run("returns ENOTFOUND for missing session", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		err := svc.UpdateSessionContent(context.Background(), "no-such-id", "data")
		require.Error(t, err)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))
	})
}

func TestSessionService_DeleteSession(t *testing.T) {
	t.Parallel()

	t.Run("deletes session and cascades to conversation", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		sessions := sqlite.NewSessionService(db)
		conversations := sqlite.NewConversationService(db)
		session := createTestSession(t, sessions, "https://github.com/example/repo")

		conv := &repopilot.Conversation{
			SessionID: session.ID,
			RepoURL:   session.RepoURL,
		}
		conv.Append(repopilot.RoleUser, "What does this repo do?")
		require.NoError(t, conversations.SaveConversation(context.Background(), conv))

		require.NoError(t, sessions.DeleteSession(context.Background(), session.ID))

		_, err := sessions.FindSessionByID(context.Background(), session.ID)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))

		_, err = conversations.FindConversationBySession(context.Background(), session.ID)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))
	})
}

func TestSessionService_DeleteExpiredSessions(t *testing.T) {
	t.Parallel()

	t.Run("removes sessions older than TTL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)
		old := createTestSession(t, svc, "https://github.com/example/old")
		fresh := createTestSession(t, svc, "https://github.com/example/fresh")

		past := time.Now().Add(-3 * time.Hour).UTC().Format(time.RFC3339)
		_, err := db.ExecContext(context.Background(), `UPDATE sessions SET created_at = ? WHERE id = ?`, past, old.ID)
		require.NoError(t, err)

		n, err := svc.DeleteExpiredSessions(context.Background(), 2*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = svc.FindSessionByID(context.Background(), old.ID)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))

		_, err = svc.FindSessionByID(context.Background(), fresh.ID)
		assert.NoError(t, err)
	})

	t.Run("returns zero when nothing expired", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)
		createTestSession(t, svc, "https://github.com/example/repo")

		n, err := svc.DeleteExpiredSessions(context.Background(), 2*time.Hour)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestSessionService_EvictSessions(t *testing.T) {
	t.Parallel()

	t.Run("evicts least recently accessed sessions over the cap", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		oldest := createTestSession(t, svc, "https://github.com/example/a")
		middle := createTestSession(t, svc, "https://github.com/example/b")
		newest := createTestSession(t, svc, "https://github.com/example/c")

		ctx := context.Background()
		for i, s := range []*repopilot.Session{oldest, middle, newest} {
			stamp := time.Now().Add(time.Duration(i-3) * time.Hour).UTC().Format(time.RFC3339)
			_, err := db.ExecContext(ctx, `UPDATE sessions SET last_accessed = ? WHERE id = ?`, stamp, s.ID)
			require.NoError(t, err)
		}

		n, err := svc.EvictSessions(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = svc.FindSessionByID(ctx, oldest.ID)
		assert.Equal(t, repopilot.ENOTFOUND, repopilot.ErrorCode(err))

		_, err = svc.FindSessionByID(ctx, middle.ID)
		assert.NoError(t, err)
		_, err = svc.FindSessionByID(ctx, newest.ID)
		assert.NoError(t, err)
	})

	t.Run("does nothing under the cap", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)
		createTestSession(t, svc, "https://github.com/example/repo")

		n, err := svc.EvictSessions(context.Background(), 80)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rejects negative cap", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		_, err := svc.EvictSessions(context.Background(), -1)
		require.Error(t, err)
		assert.Equal(t, repopilot.EINVALID, repopilot.ErrorCode(err))
	})
}

func TestSessionService_Stats(t *testing.T) {
	t.Parallel()

	t.Run("reports counts and byte totals", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		sessions := sqlite.NewSessionService(db)
		conversations := sqlite.NewConversationService(db)
		session := createTestSession(t, sessions, "https://github.com/example/repo")

		conv := &repopilot.Conversation{SessionID: session.ID, RepoURL: session.RepoURL}
		conv.Append(repopilot.RoleUser, "hello")
		require.NoError(t, conversations.SaveConversation(context.Background(), conv))

		stats, err := sessions.Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, stats.Sessions)
		assert.Equal(t, 1, stats.Conversations)
		assert.Positive(t, stats.ContentBytes)
		assert.Positive(t, stats.MessageBytes)
		assert.Equal(t, stats.ContentBytes+stats.MessageBytes, stats.TotalBytes())
	})

	t.Run("empty database reports zeros", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSessionService(db)

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.Sessions)
		assert.Zero(t, stats.TotalBytes())
	})
}
