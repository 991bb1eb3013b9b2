package mock

import (
	"context"

	"repopilot"
)

var _ repopilot.DocumentationService = (*DocumentationService)(nil)

// DocumentationService is a mock implementation of repopilot.DocumentationService.
type DocumentationService struct {
	SaveDocumentationFn            func(ctx context.Context, doc *repopilot.Documentation) error
	FindDocumentationBySessionFn   func(ctx context.Context, sessionID string) (*repopilot.Documentation, error)
	DeleteDocumentationBySessionFn func(ctx context.Context, sessionID string) error
}

func (s *DocumentationService) SaveDocumentation(ctx context.Context, doc *repopilot.Documentation) error {
	return s.SaveDocumentationFn(ctx, doc)
}

func (s *DocumentationService) FindDocumentationBySession(ctx context.Context, sessionID string) (*repopilot.Documentation, error) {
	return s.FindDocumentationBySessionFn(ctx, sessionID)
}

func (s *DocumentationService) DeleteDocumentationBySession(ctx context.Context, sessionID string) error {
	return s.DeleteDocumentationBySessionFn(ctx, sessionID)
}
