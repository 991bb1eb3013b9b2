package mock

import (
	"context"

	"repopilot"
)

var _ repopilot.ConversationService = (*ConversationService)(nil)

// ConversationService is a mock implementation of repopilot.ConversationService.
type ConversationService struct {
	FindConversationBySessionFn   func(ctx context.Context, sessionID string) (*repopilot.Conversation, error)
	SaveConversationFn            func(ctx context.Context, conv *repopilot.Conversation) error
	DeleteConversationBySessionFn func(ctx context.Context, sessionID string) error
}

func (s *ConversationService) FindConversationBySession(ctx context.Context, sessionID string) (*repopilot.Conversation, error) {
	return s.FindConversationBySessionFn(ctx, sessionID)
}

func (s *ConversationService) SaveConversation(ctx context.Context, conv *repopilot.Conversation) error {
	return s.SaveConversationFn(ctx, conv)
}

func (s *ConversationService) DeleteConversationBySession(ctx context.Context, sessionID string) error {
	return s.DeleteConversationBySessionFn(ctx, sessionID)
}
