package repopilot

import "context"

// GenerateOptions configures a single LLM call.
type GenerateOptions struct {
	// APIKey, when set, overrides the server's API key for this call.
	// Used when a session carries a caller-supplied key.
	APIKey string
}

// TextGenerator generates text from prompts using an LLM.
type TextGenerator interface {
	// GenerateText produces a completion for a single prompt.
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateChat produces the next assistant reply for a conversation.
	GenerateChat(ctx context.Context, messages []Message, opts GenerateOptions) (string, error)
}

// KeyValidator checks whether an API key is accepted by the LLM provider.
type KeyValidator interface {
	// ValidateKey performs a minimal request with the key.
	// Returns EUNAUTHORIZED if the provider rejects it.
	ValidateKey(ctx context.Context, apiKey string) error
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Asker answers natural language questions about an ingested repository,
// maintaining the session's conversation history.
type Asker interface {
	// Ask answers a question in the context of the session's repository.
	// Returns EINVALID for empty or oversized queries and ERATELIMIT when
	// the conversation's message cap is reached.
	Ask(ctx context.Context, session *Session, query string) (string, error)
}

// DocGenerator produces documentation artifacts from an ingested session.
type DocGenerator interface {
	// GenerateDocumentation runs the full pipeline: summary, abstractions,
	// relationships, chapter plan, introduction, diagrams, and chapters.
	GenerateDocumentation(ctx context.Context, session *Session) (*Documentation, error)

	// GenerateDiagrams produces only the Mermaid diagram set.
	GenerateDiagrams(ctx context.Context, session *Session) (map[string]string, error)
}
