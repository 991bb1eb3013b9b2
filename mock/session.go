// Package mock provides hand-written mock implementations of repopilot
// interfaces for testing.
package mock

import (
	"context"
	"time"

	"repopilot"
)

var _ repopilot.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of repopilot.SessionService.
type SessionService struct {
	CreateSessionFn         func(ctx context.Context, session *repopilot.Session) error
	FindSessionByIDFn       func(ctx context.Context, id string) (*repopilot.Session, error)
	FindSessionsFn          func(ctx context.Context) ([]*repopilot.Session, error)
	TouchSessionFn          func(ctx context.Context, id string) error
	UpdateSessionContentFn  func(ctx context.Context, id string, content string) error
	DeleteSessionFn         func(ctx context.Context, id string) error
	DeleteExpiredSessionsFn func(ctx context.Context, ttl time.Duration) (int, error)
	EvictSessionsFn         func(ctx context.Context, max int) (int, error)
	StatsFn                 func(ctx context.Context) (repopilot.SessionStats, error)
}

func (s *SessionService) CreateSession(ctx context.Context, session *repopilot.Session) error {
	return s.CreateSessionFn(ctx, session)
}

func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*repopilot.Session, error) {
	return s.FindSessionByIDFn(ctx, id)
}

func (s *SessionService) FindSessions(ctx context.Context) ([]*repopilot.Session, error) {
	return s.FindSessionsFn(ctx)
}

func (s *SessionService) TouchSession(ctx context.Context, id string) error {
	return s.TouchSessionFn(ctx, id)
}

func (s *SessionService) UpdateSessionContent(ctx context.Context, id string, content string) error {
	return s.UpdateSessionContentFn(ctx, id, content)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}

func (s *SessionService) DeleteExpiredSessions(ctx context.Context, ttl time.Duration) (int, error) {
	return s.DeleteExpiredSessionsFn(ctx, ttl)
}

func (s *SessionService) EvictSessions(ctx context.Context, max int) (int, error) {
	return s.EvictSessionsFn(ctx, max)
}

func (s *SessionService) Stats(ctx context.Context) (repopilot.SessionStats, error) {
	return s.StatsFn(ctx)
}
