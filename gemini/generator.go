// Package gemini implements LLM text generation and API key validation
// using the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"repopilot"

	"google.golang.org/genai"
)

// DefaultModel is the model used for all generation calls.
const DefaultModel = "gemini-2.0-flash"

// Ensure Generator implements the domain interfaces at compile time.
var (
	_ repopilot.TextGenerator = (*Generator)(nil)
	_ repopilot.KeyValidator  = (*Generator)(nil)
)

// Generator implements repopilot.TextGenerator and repopilot.KeyValidator
// using Google Gemini. A shared client serves calls with the server's API
// key; calls carrying a user key get a short-lived client of their own.
type Generator struct {
	client *genai.Client
	model  string
	pace   time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

// WithPace inserts a delay before each generation call to spread request
// load across long pipelines. Zero disables pacing.
func WithPace(d time.Duration) Option {
	return func(g *Generator) { g.pace = d }
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client *genai.Client, opts ...Option) *Generator {
	g := &Generator{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateText produces a completion for a single prompt.
func (g *Generator) GenerateText(ctx context.Context, prompt string, opts repopilot.GenerateOptions) (string, error) {
	if prompt == "" {
		return "", repopilot.Errorf(repopilot.EINVALID, "prompt required")
	}

	if err := g.waitPace(ctx); err != nil {
		return "", err
	}

	client, err := g.clientFor(ctx, opts)
	if err != nil {
		return "", err
	}

	result, err := client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		generateConfig(nil),
	)
	if err != nil {
		return "", mapError(err)
	}
	if result == nil {
		return "", repopilot.Errorf(repopilot.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// GenerateChat produces the next assistant reply for a conversation.
func (g *Generator) GenerateChat(ctx context.Context, messages []repopilot.Message, opts repopilot.GenerateOptions) (string, error) {
	if len(messages) == 0 {
		return "", repopilot.Errorf(repopilot.EINVALID, "messages required")
	}

	if err := g.waitPace(ctx); err != nil {
		return "", err
	}

	client, err := g.clientFor(ctx, opts)
	if err != nil {
		return "", err
	}

	contents, system := buildContents(messages)

	result, err := client.Models.GenerateContent(ctx, g.model, contents, generateConfig(system))
	if err != nil {
		return "", mapError(err)
	}
	if result == nil {
		return "", repopilot.Errorf(repopilot.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// ValidateKey performs a minimal generation request with the key.
func (g *Generator) ValidateKey(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return repopilot.Errorf(repopilot.EINVALID, "API key is required")
	}

	client, err := newClient(ctx, apiKey)
	if err != nil {
		return mapError(err)
	}

	config := generateConfig(nil)
	config.MaxOutputTokens = 5

	_, err = client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: "test"}},
		}},
		config,
	)
	if err != nil {
		return repopilot.Errorf(repopilot.EUNAUTHORIZED, "invalid API key")
	}
	return nil
}

// clientFor returns the shared client, or a fresh one when the call carries
// its own API key.
func (g *Generator) clientFor(ctx context.Context, opts repopilot.GenerateOptions) (*genai.Client, error) {
	if opts.APIKey == "" {
		if g.client == nil {
			return nil, repopilot.Errorf(repopilot.EINTERNAL, "gemini client not configured")
		}
		return g.client, nil
	}
	client, err := newClient(ctx, opts.APIKey)
	if err != nil {
		return nil, mapError(err)
	}
	return client, nil
}

func (g *Generator) waitPace(ctx context.Context) error {
	if g.pace <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return repopilot.Errorf(repopilot.ETIMEOUT, "generation timed out: %v", ctx.Err())
	case <-time.After(g.pace):
		return nil
	}
}

func newClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// generateConfig returns the GenerateContentConfig for Gemini API calls.
func generateConfig(system *genai.Content) *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       &temp,
	}
}

// buildContents converts conversation messages into Gemini contents.
// System messages become the system instruction; assistant turns use the
// "model" role the API expects.
func buildContents(messages []repopilot.Message) ([]*genai.Content, *genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case repopilot.RoleSystem:
			system = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
		case repopilot.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, "model"))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, "user"))
		}
	}

	return contents, system
}

// mapError converts Gemini API errors into domain errors.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return repopilot.Errorf(repopilot.EUNAUTHORIZED, "API key rejected")
		case 429:
			return repopilot.Errorf(repopilot.ERATELIMIT, "AI service rate limit exceeded")
		}
		return repopilot.Errorf(repopilot.EUNAVAILABLE, "AI service temporarily unavailable")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return repopilot.Errorf(repopilot.ETIMEOUT, "AI service request timed out")
	}
	return err
}
