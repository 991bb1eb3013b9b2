package slog

import (
	"context"
	"log/slog"
	"time"

	"repopilot"
)

// Ensure LoggingTextGenerator implements repopilot.TextGenerator.
var _ repopilot.TextGenerator = (*LoggingTextGenerator)(nil)

// LoggingTextGenerator wraps a TextGenerator with debug logging. API keys
// never appear in log output, only whether a caller-supplied key was used.
type LoggingTextGenerator struct {
	next   repopilot.TextGenerator
	logger *slog.Logger
}

// NewLoggingTextGenerator creates a new LoggingTextGenerator.
func NewLoggingTextGenerator(next repopilot.TextGenerator, logger *slog.Logger) *LoggingTextGenerator {
	return &LoggingTextGenerator{next: next, logger: logger}
}

// GenerateText delegates to the wrapped generator and logs the call.
func (g *LoggingTextGenerator) GenerateText(ctx context.Context, prompt string, opts repopilot.GenerateOptions) (out string, err error) {
	defer func(begin time.Time) {
		g.logger.Debug("generate text",
			"prompt_chars", len(prompt),
			"response_chars", len(out),
			"user_key", opts.APIKey != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.GenerateText(ctx, prompt, opts)
}

// GenerateChat delegates to the wrapped generator and logs the call.
func (g *LoggingTextGenerator) GenerateChat(ctx context.Context, messages []repopilot.Message, opts repopilot.GenerateOptions) (out string, err error) {
	defer func(begin time.Time) {
		g.logger.Debug("generate chat",
			"messages", len(messages),
			"response_chars", len(out),
			"user_key", opts.APIKey != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.GenerateChat(ctx, messages, opts)
}
