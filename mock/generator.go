package mock

import (
	"context"

	"repopilot"
)

var _ repopilot.DocGenerator = (*DocGenerator)(nil)

// DocGenerator is a mock implementation of repopilot.DocGenerator.
type DocGenerator struct {
	GenerateDocumentationFn func(ctx context.Context, session *repopilot.Session) (*repopilot.Documentation, error)
	GenerateDiagramsFn      func(ctx context.Context, session *repopilot.Session) (map[string]string, error)
}

func (g *DocGenerator) GenerateDocumentation(ctx context.Context, session *repopilot.Session) (*repopilot.Documentation, error) {
	return g.GenerateDocumentationFn(ctx, session)
}

func (g *DocGenerator) GenerateDiagrams(ctx context.Context, session *repopilot.Session) (map[string]string, error) {
	return g.GenerateDiagramsFn(ctx, session)
}

var _ repopilot.Asker = (*Asker)(nil)

// Asker is a mock implementation of repopilot.Asker.
type Asker struct {
	AskFn func(ctx context.Context, session *repopilot.Session, query string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, session *repopilot.Session, query string) (string, error) {
	return a.AskFn(ctx, session, query)
}
