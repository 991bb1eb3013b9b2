package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"repopilot"
	"repopilot/docgen"
	"repopilot/gemini"
	"repopilot/gitingest"
	rpslog "repopilot/slog"
	"repopilot/sqlite"
)

func main() {
	ctx := context.Background()

	// Local .env files supply GEMINI_API_KEY during development.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SessionService      repopilot.SessionService
	ConversationService repopilot.ConversationService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("repopilot"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'repopilot --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set REPOPILOT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.SessionService = sqlite.NewSessionService(m.DB)
	m.ConversationService = sqlite.NewConversationService(m.DB)
	deps.DB = m.DB
	deps.Sessions = m.SessionService
	deps.Conversations = m.ConversationService
	deps.Documentation = sqlite.NewDocumentationService(m.DB)

	if cmd == "serve" || cmd == "ingest" {
		deps.Ingestor = rpslog.NewLoggingIngestor(gitingest.New(), deps.Logger)
	}

	if cmd == "ingest" {
		// Best effort: token counts are informational only.
		if tc, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
			deps.Tokens = tc
		} else {
			deps.Logger.Warn("token counter unavailable", "err", err)
		}
	}

	if cmd == "serve" || cmd == "generate" || cmd == "ask" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		deps.APIKeyConfigured = apiKey != ""

		// The server can run without a key; session-scoped user keys
		// still work. The offline commands cannot.
		if apiKey == "" && cmd != "serve" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		// A nil client is tolerated when serving: session-scoped user
		// keys still create their own clients per call.
		var client *genai.Client
		if apiKey != "" {
			client, err = genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
		}

		generator := gemini.NewGenerator(client, gemini.WithPace(llmPace))
		llm := rpslog.NewLoggingTextGenerator(generator, deps.Logger)
		deps.Validator = generator
		deps.DocGenerator = docgen.NewGenerator(llm, docgen.WithLogger(deps.Logger))
		deps.Asker = docgen.NewAsker(llm, deps.Conversations, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// llmPace spaces out generation calls so long documentation pipelines stay
// under free-tier request quotas.
const llmPace = 2 * time.Second

// tokenizerModel is used for token counting.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("REPOPILOT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "repopilot.db"
	}
	dir := filepath.Join(home, ".repopilot")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "repopilot.db")
}
