package main

import (
	"context"
	"io"
	"log/slog"

	"repopilot"
	"repopilot/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB            *sqlite.DB
	Sessions      repopilot.SessionService
	Conversations repopilot.ConversationService
	Documentation repopilot.DocumentationService

	Ingestor     repopilot.Ingestor
	DocGenerator repopilot.DocGenerator
	Asker        repopilot.Asker
	Validator    repopilot.KeyValidator
	Tokens       repopilot.TokenCounter

	// APIKeyConfigured reports whether a server-side Gemini key is set.
	APIKeyConfigured bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve    ServeCmd    `cmd:"" help:"Run the HTTP API server"`
	Ingest   IngestCmd   `cmd:"" help:"Ingest a GitHub repository into a session"`
	Generate GenerateCmd `cmd:"" help:"Generate documentation for an ingested session"`
	Ask      AskCmd      `cmd:"" help:"Ask a question about an ingested repository"`
	Sessions SessionsCmd `cmd:"" help:"List active sessions and storage statistics"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a session and its conversation"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string   `default:":8000" help:"HTTP listen address"`
	Origins []string `env:"ALLOWED_ORIGINS" default:"http://localhost:3000" help:"Allowed CORS origins"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URL string `arg:"" help:"GitHub repository URL"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Session string `arg:"" help:"Session ID returned by ingest"`
	Out     string `short:"o" help:"Directory to export the documentation to"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Session  string `arg:"" help:"Session ID returned by ingest"`
	Question string `arg:"" help:"Question to ask about the repository"`
}

// SessionsCmd is the "sessions" subcommand.
type SessionsCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Session string `arg:"" help:"Session ID to delete"`
}
