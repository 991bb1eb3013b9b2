package repopilot

import (
	"context"
	"time"
)

// Default session limits, matching the service's public documentation.
const (
	DefaultSessionTTL  = 2 * time.Hour
	DefaultMaxSessions = 80

	// MaxContentSize caps the repository content stored with a session.
	MaxContentSize = 1 << 20 // 1 MiB

	// MaxSnapshotSize caps the combined size of a repository snapshot.
	MaxSnapshotSize = 100 << 20 // 100 MiB
)

// Session represents an ingested repository held server-side. It correlates
// a repository snapshot with later documentation and chat requests.
type Session struct {
	ID      string `json:"id"`
	RepoURL string `json:"repoUrl"`

	// Snapshot of the ingested repository.
	Summary string `json:"summary"`
	Tree    string `json:"tree"`
	Content string `json:"content"`

	// UserAPIKey is an optional caller-supplied Gemini API key used for
	// this session's LLM calls instead of the server key. Never exposed
	// in API responses.
	UserAPIKey string `json:"-"`

	// ContentSize is the size of the snapshot content before truncation.
	ContentSize int `json:"contentSize"`

	RequestCount int       `json:"requestCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// Validate returns an error if the session contains invalid fields.
func (s *Session) Validate() error {
	if s.RepoURL == "" {
		return Errorf(EINVALID, "session repository URL required")
	}
	return nil
}

// HasUserKey reports whether the session carries a caller-supplied API key.
func (s *Session) HasUserKey() bool {
	return s.UserAPIKey != ""
}

// ExpiresAt returns the moment the session expires for the given TTL.
func (s *Session) ExpiresAt(ttl time.Duration) time.Time {
	return s.CreatedAt.Add(ttl)
}

// Expired reports whether the session has outlived the given TTL at time now.
// Expiry is keyed off creation time, not last access.
func (s *Session) Expired(ttl time.Duration, now time.Time) bool {
	return now.After(s.ExpiresAt(ttl))
}

// SessionStats describes current session storage usage. Reported by the
// health endpoint and logged by the cleanup janitor.
type SessionStats struct {
	Sessions      int   `json:"sessions"`
	Conversations int   `json:"conversations"`
	ContentBytes  int64 `json:"contentBytes"`
	MessageBytes  int64 `json:"messageBytes"`
}

// TotalBytes returns the combined stored size.
func (s SessionStats) TotalBytes() int64 {
	return s.ContentBytes + s.MessageBytes
}

// SessionService represents a service for managing repository sessions.
type SessionService interface {
	// CreateSession creates a new session, assigning its ID and timestamps.
	CreateSession(ctx context.Context, session *Session) error

	// FindSessionByID retrieves a session by ID.
	// Returns ENOTFOUND if the session does not exist.
	FindSessionByID(ctx context.Context, id string) (*Session, error)

	// FindSessions lists all sessions ordered by last access, most recent
	// first. Snapshot bodies are omitted; ContentSize is populated.
	FindSessions(ctx context.Context) ([]*Session, error)

	// TouchSession updates the session's last accessed time and increments
	// its request count. Returns ENOTFOUND if the session does not exist.
	TouchSession(ctx context.Context, id string) error

	// UpdateSessionContent replaces the stored snapshot content, e.g. to
	// shrink it after documentation has been generated.
	UpdateSessionContent(ctx context.Context, id string, content string) error

	// DeleteSession permanently removes a session and its conversation.
	// Returns ENOTFOUND if the session does not exist.
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes all sessions older than the TTL along
	// with their conversations. Returns the number of sessions removed.
	DeleteExpiredSessions(ctx context.Context, ttl time.Duration) (int, error)

	// EvictSessions removes least recently accessed sessions until at most
	// max remain. Returns the number of sessions removed.
	EvictSessions(ctx context.Context, max int) (int, error)

	// Stats reports current storage usage.
	Stats(ctx context.Context) (SessionStats, error)
}
