package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"repopilot"
)

// Compile-time interface verification.
var _ repopilot.ConversationService = (*ConversationService)(nil)

// ConversationService implements repopilot.ConversationService using SQLite.
// Message history is stored as a JSON array alongside the session.
type ConversationService struct {
	db *DB
}

// NewConversationService creates a new ConversationService.
func NewConversationService(db *DB) *ConversationService {
	return &ConversationService{db: db}
}

// FindConversationBySession retrieves a session's conversation.
func (s *ConversationService) FindConversationBySession(ctx context.Context, sessionID string) (*repopilot.Conversation, error) {
	var conv repopilot.Conversation
	var messages string
	var createdAt, lastAccessed string

	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, repo_url, messages, message_count, created_at, last_accessed
		FROM conversations
		WHERE session_id = ?
	`, sessionID).Scan(&conv.SessionID, &conv.RepoURL, &messages,
		&conv.MessageCount, &createdAt, &lastAccessed)

	if err == sql.ErrNoRows {
		return nil, repopilot.Errorf(repopilot.ENOTFOUND, "conversation not found")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(messages), &conv.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	if conv.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if conv.LastAccessed, err = parseRFC3339(lastAccessed, "last_accessed"); err != nil {
		return nil, err
	}

	return &conv, nil
}

// SaveConversation stores a conversation, replacing any previous state for
// the same session.
func (s *ConversationService) SaveConversation(ctx context.Context, conv *repopilot.Conversation) error {
	if conv.SessionID == "" {
		return repopilot.Errorf(repopilot.EINVALID, "conversation session ID required")
	}

	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}

	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.LastAccessed = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, repo_url, messages, message_count, created_at, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			repo_url = excluded.repo_url,
			messages = excluded.messages,
			message_count = excluded.message_count,
			last_accessed = excluded.last_accessed
	`, conv.SessionID, conv.RepoURL, string(messages), conv.MessageCount,
		formatTime(conv.CreatedAt), formatTime(conv.LastAccessed))

	return err
}

// DeleteConversationBySession removes a session's conversation.
func (s *ConversationService) DeleteConversationBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM conversations WHERE session_id = ?
	`, sessionID)
	return err
}
