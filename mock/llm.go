package mock

import (
	"context"

	"repopilot"
)

var _ repopilot.TextGenerator = (*TextGenerator)(nil)

// TextGenerator is a mock implementation of repopilot.TextGenerator.
type TextGenerator struct {
	GenerateTextFn func(ctx context.Context, prompt string, opts repopilot.GenerateOptions) (string, error)
	GenerateChatFn func(ctx context.Context, messages []repopilot.Message, opts repopilot.GenerateOptions) (string, error)
}

func (g *TextGenerator) GenerateText(ctx context.Context, prompt string, opts repopilot.GenerateOptions) (string, error) {
	return g.GenerateTextFn(ctx, prompt, opts)
}

func (g *TextGenerator) GenerateChat(ctx context.Context, messages []repopilot.Message, opts repopilot.GenerateOptions) (string, error) {
	return g.GenerateChatFn(ctx, messages, opts)
}

var _ repopilot.KeyValidator = (*KeyValidator)(nil)

// KeyValidator is a mock implementation of repopilot.KeyValidator.
type KeyValidator struct {
	ValidateKeyFn func(ctx context.Context, apiKey string) error
}

func (v *KeyValidator) ValidateKey(ctx context.Context, apiKey string) error {
	return v.ValidateKeyFn(ctx, apiKey)
}

var _ repopilot.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of repopilot.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
