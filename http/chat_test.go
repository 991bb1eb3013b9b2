package http_test

import (
	"context"
	"net/http"
	"testing"

	"repopilot"
	"repopilot/mock"

	"github.com/stretchr/testify/assert"
)

func TestServer_Chat(t *testing.T) {
	t.Parallel()

	t.Run("answers a question", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		var gotQuery string
		s.Asker = &mock.Asker{
			AskFn: func(ctx context.Context, session *repopilot.Session, query string) (string, error) {
				gotQuery = query
				return "It parses widgets.", nil
			},
		}

		rec, body := doJSON(t, s, http.MethodPost, "/chat", `{"session_id":"abc","query":"What does this do?"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "It parses widgets.", body["answer"])
		assert.Equal(t, "What does this do?", gotQuery)
	})

	t.Run("empty query is a 400", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.Asker = &mock.Asker{
			AskFn: func(ctx context.Context, session *repopilot.Session, query string) (string, error) {
				return "", repopilot.Errorf(repopilot.EINVALID, "query cannot be empty")
			},
		}

		rec, body := doJSON(t, s, http.MethodPost, "/chat", `{"session_id":"abc","query":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["detail"], "empty")
	})

	t.Run("message cap maps to 429", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.Asker = &mock.Asker{
			AskFn: func(ctx context.Context, session *repopilot.Session, query string) (string, error) {
				return "", repopilot.Errorf(repopilot.ERATELIMIT, "maximum messages per session reached")
			},
		}

		rec, _ := doJSON(t, s, http.MethodPost, "/chat", `{"session_id":"abc","query":"q"}`)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.Asker = &mock.Asker{
			AskFn: func(ctx context.Context, session *repopilot.Session, query string) (string, error) {
				return "", repopilot.Errorf(repopilot.EUNAVAILABLE, "AI service temporarily unavailable")
			},
		}

		rec, body := doJSON(t, s, http.MethodPost, "/chat", `{"session_id":"abc","query":"q"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, body["detail"], "unavailable")
	})

	t.Run("expired session is a 404", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.SessionService.(*mock.SessionService).FindSessionByIDFn = func(ctx context.Context, id string) (*repopilot.Session, error) {
			return nil, repopilot.Errorf(repopilot.ENOTFOUND, "session not found or expired")
		}

		rec, _ := doJSON(t, s, http.MethodPost, "/chat", `{"session_id":"gone","query":"q"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
