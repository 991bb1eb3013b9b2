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
var _ repopilot.DocumentationService = (*DocumentationService)(nil)

// DocumentationService implements repopilot.DocumentationService using
// SQLite. Chapters, diagrams and metadata are stored as JSON columns.
type DocumentationService struct {
	db *DB
}

// NewDocumentationService creates a new DocumentationService.
func NewDocumentationService(db *DB) *DocumentationService {
	return &DocumentationService{db: db}
}

// FindDocumentationBySession retrieves generated documentation for a session.
func (s *DocumentationService) FindDocumentationBySession(ctx context.Context, sessionID string) (*repopilot.Documentation, error) {
	var doc repopilot.Documentation
	var chapters, diagrams, metadata string
	var generatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, repo_url, introduction, chapters, diagrams, metadata, generated_at
		FROM documentation
		WHERE session_id = ?
	`, sessionID).Scan(&doc.SessionID, &doc.RepoURL, &doc.Introduction,
		&chapters, &diagrams, &metadata, &generatedAt)

	if err == sql.ErrNoRows {
		return nil, repopilot.Errorf(repopilot.ENOTFOUND, "documentation not found")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(chapters), &doc.Chapters); err != nil {
		return nil, fmt.Errorf("failed to decode chapters: %w", err)
	}
	if err := json.Unmarshal([]byte(diagrams), &doc.Diagrams); err != nil {
		return nil, fmt.Errorf("failed to decode diagrams: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if doc.GeneratedAt, err = parseRFC3339(generatedAt, "generated_at"); err != nil {
		return nil, err
	}

	return &doc, nil
}

// SaveDocumentation stores generated documentation, replacing any previous
// documentation for the same session.
func (s *DocumentationService) SaveDocumentation(ctx context.Context, doc *repopilot.Documentation) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	chapters, err := json.Marshal(doc.Chapters)
	if err != nil {
		return fmt.Errorf("failed to encode chapters: %w", err)
	}
	diagrams, err := json.Marshal(doc.Diagrams)
	if err != nil {
		return fmt.Errorf("failed to encode diagrams: %w", err)
	}
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documentation (session_id, repo_url, introduction, chapters, diagrams, metadata, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			repo_url = excluded.repo_url,
			introduction = excluded.introduction,
			chapters = excluded.chapters,
			diagrams = excluded.diagrams,
			metadata = excluded.metadata,
			generated_at = excluded.generated_at
	`, doc.SessionID, doc.RepoURL, doc.Introduction, string(chapters),
		string(diagrams), string(metadata), formatTime(doc.GeneratedAt))

	return err
}

// DeleteDocumentationBySession removes a session's documentation.
func (s *DocumentationService) DeleteDocumentationBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM documentation WHERE session_id = ?
	`, sessionID)
	return err
}
