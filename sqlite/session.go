package sqlite

import (
	"context"
	"database/sql"
	"time"

	"repopilot"

	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ repopilot.SessionService = (*SessionService)(nil)

// SessionService implements repopilot.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession creates a new session, assigning its ID and timestamps.
func (s *SessionService) CreateSession(ctx context.Context, session *repopilot.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	session.ID = uuid.New().String()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.LastAccessed = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, repo_url, summary, tree, content, user_api_key,
			content_size, request_count, created_at, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.RepoURL, session.Summary, session.Tree, session.Content,
		session.UserAPIKey, session.ContentSize, session.RequestCount,
		formatTime(session.CreatedAt), formatTime(session.LastAccessed))

	return err
}

// FindSessionByID retrieves a session by ID.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*repopilot.Session, error) {
	var session repopilot.Session
	var createdAt, lastAccessed string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, repo_url, summary, tree, content, user_api_key,
			content_size, request_count, created_at, last_accessed
		FROM sessions
		WHERE id = ?
	`, id).Scan(&session.ID, &session.RepoURL, &session.Summary, &session.Tree,
		&session.Content, &session.UserAPIKey, &session.ContentSize,
		&session.RequestCount, &createdAt, &lastAccessed)

	if err == sql.ErrNoRows {
		return nil, repopilot.Errorf(repopilot.ENOTFOUND, "session not found or expired")
	}
	if err != nil {
		return nil, err
	}

	if session.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if session.LastAccessed, err = parseRFC3339(lastAccessed, "last_accessed"); err != nil {
		return nil, err
	}

	return &session, nil
}

// FindSessions lists all sessions ordered by last access, most recent first.
// Snapshot bodies are not loaded.
func (s *SessionService) FindSessions(ctx context.Context) ([]*repopilot.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, repo_url, content_size, request_count, created_at, last_accessed
		FROM sessions
		ORDER BY last_accessed DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*repopilot.Session
	for rows.Next() {
		var session repopilot.Session
		var createdAt, lastAccessed string
		if err := rows.Scan(&session.ID, &session.RepoURL, &session.ContentSize,
			&session.RequestCount, &createdAt, &lastAccessed); err != nil {
			return nil, err
		}
		if session.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if session.LastAccessed, err = parseRFC3339(lastAccessed, "last_accessed"); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// TouchSession updates the session's last accessed time and increments its
// request count.
func (s *SessionService) TouchSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET last_accessed = ?, request_count = request_count + 1
		WHERE id = ?
	`, formatTime(time.Now()), id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repopilot.Errorf(repopilot.ENOTFOUND, "session not found or expired")
	}
	return nil
}

// UpdateSessionContent replaces the stored snapshot content.
func (s *SessionService) UpdateSessionContent(ctx context.Context, id string, content string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET content = ? WHERE id = ?
	`, content, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repopilot.Errorf(repopilot.ENOTFOUND, "session not found or expired")
	}
	return nil
}

// DeleteSession permanently removes a session. The session's conversation
// and documentation are removed by cascade.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repopilot.Errorf(repopilot.ENOTFOUND, "session not found or expired")
	}
	return nil
}

// DeleteExpiredSessions removes all sessions older than the TTL.
func (s *SessionService) DeleteExpiredSessions(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := formatTime(time.Now().Add(-ttl))

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE created_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// EvictSessions removes least recently accessed sessions until at most max
// remain.
func (s *SessionService) EvictSessions(ctx context.Context, max int) (int, error) {
	if max < 0 {
		return 0, repopilot.Errorf(repopilot.EINVALID, "session cap must not be negative")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		return 0, err
	}
	if count <= max {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE id IN (
			SELECT id FROM sessions ORDER BY last_accessed ASC LIMIT ?
		)
	`, count-max)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Stats reports current storage usage.
func (s *SessionService) Stats(ctx context.Context) (repopilot.SessionStats, error) {
	var stats repopilot.SessionStats

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(LENGTH(content) + LENGTH(summary) + LENGTH(tree)), 0)
		FROM sessions
	`).Scan(&stats.Sessions, &stats.ContentBytes)
	if err != nil {
		return repopilot.SessionStats{}, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(LENGTH(messages)), 0)
		FROM conversations
	`).Scan(&stats.Conversations, &stats.MessageBytes)
	if err != nil {
		return repopilot.SessionStats{}, err
	}

	return stats, nil
}
