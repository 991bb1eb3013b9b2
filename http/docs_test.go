package http_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"repopilot"
	"repopilot/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocumentation(sessionID string) *repopilot.Documentation {
	return &repopilot.Documentation{
		SessionID:    sessionID,
		RepoURL:      "https://github.com/example/repo",
		Introduction: "# Introduction",
		Chapters: map[string]repopilot.Chapter{
			repopilot.ChapterKey(1): {Number: 1, Title: "Getting Started", Content: "# Getting Started"},
		},
		Diagrams: map[string]string{"architecture": "flowchart TD\n    A --> B"},
		Metadata: repopilot.DocMetadata{
			ComprehensiveSummary: strings.Repeat("s", 400),
			Abstractions:         strings.Repeat("a", 300),
			RawChapterStructure:  "## Chapter 1: Getting Started",
			TotalChapters:        1,
			TotalDiagrams:        1,
		},
	}
}

func TestServer_GenerateDocs(t *testing.T) {
	t.Parallel()

	t.Run("generates, saves, and shrinks session content", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		svc := s.SessionService.(*mock.SessionService)
		svc.FindSessionByIDFn = func(ctx context.Context, id string) (*repopilot.Session, error) {
			return &repopilot.Session{
				ID:      id,
				RepoURL: "https://github.com/example/repo",
				// A two-byte rune straddles the 50000-byte chat cap.
				Content:   strings.Repeat("x", 49999) + strings.Repeat("é", 5001),
				CreatedAt: time.Now(),
			}, nil
		}
		var shrunk string
		svc.UpdateSessionContentFn = func(ctx context.Context, id, content string) error {
			shrunk = content
			return nil
		}
		var saved *repopilot.Documentation
		s.DocumentationService.(*mock.DocumentationService).SaveDocumentationFn = func(ctx context.Context, doc *repopilot.Documentation) error {
			saved = doc
			return nil
		}
		s.DocGenerator = &mock.DocGenerator{
			GenerateDocumentationFn: func(ctx context.Context, session *repopilot.Session) (*repopilot.Documentation, error) {
				return testDocumentation(session.ID), nil
			},
		}

		rec, body := doJSON(t, s, http.MethodPost, "/generate-docs", `{"session_id":"abc"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "# Introduction", body["introduction"])

		chapters, ok := body["chapters"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, chapters, "chapter_1")

		metadata, ok := body["metadata"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(1), metadata["total_chapters"])
		summary, _ := metadata["comprehensive_summary"].(string)
		assert.Len(t, summary, 303, "summary is previewed at 300 chars plus ellipsis")

		require.NotNil(t, saved)
		assert.Equal(t, "abc", saved.SessionID)
		assert.Len(t, shrunk, 49999, "session content shrinks to the chat cap on a rune boundary")
		assert.True(t, utf8.ValidString(shrunk))
	})

	t.Run("maps generation timeout to 408", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocGenerator = &mock.DocGenerator{
			GenerateDocumentationFn: func(ctx context.Context, session *repopilot.Session) (*repopilot.Documentation, error) {
				return nil, repopilot.Errorf(repopilot.ETIMEOUT, "deadline exceeded")
			},
		}

		rec, body := doJSON(t, s, http.MethodPost, "/generate-docs", `{"session_id":"abc"}`)
		assert.Equal(t, http.StatusRequestTimeout, rec.Code)
		assert.Contains(t, body["detail"], "too complex")
	})

	t.Run("unknown session is a 404", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.SessionService.(*mock.SessionService).FindSessionByIDFn = func(ctx context.Context, id string) (*repopilot.Session, error) {
			return nil, repopilot.Errorf(repopilot.ENOTFOUND, "session not found or expired")
		}

		rec, _ := doJSON(t, s, http.MethodPost, "/generate-docs", `{"session_id":"gone"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing session ID is a 400", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		rec, _ := doJSON(t, s, http.MethodPost, "/generate-docs", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GenerateMermaid(t *testing.T) {
	t.Parallel()

	t.Run("returns the diagram set", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocGenerator = &mock.DocGenerator{
			GenerateDiagramsFn: func(ctx context.Context, session *repopilot.Session) (map[string]string, error) {
				return map[string]string{
					"architecture": "flowchart TD\n    A --> B",
					"sequence":     "sequenceDiagram\n    A->>B: hi",
				}, nil
			},
		}

		rec, body := doJSON(t, s, http.MethodPost, "/generate-mermaid", `{"session_id":"abc"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(2), body["total_diagrams"])

		diagrams, ok := body["diagrams"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, diagrams, "architecture")
	})

	t.Run("maps diagram timeout to 408", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.DocGenerator = &mock.DocGenerator{
			GenerateDiagramsFn: func(ctx context.Context, session *repopilot.Session) (map[string]string, error) {
				return nil, repopilot.Errorf(repopilot.ETIMEOUT, "deadline exceeded")
			},
		}

		rec, _ := doJSON(t, s, http.MethodPost, "/generate-mermaid", `{"session_id":"abc"}`)
		assert.Equal(t, http.StatusRequestTimeout, rec.Code)
	})
}
