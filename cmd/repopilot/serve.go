package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"repopilot"
	rphttp "repopilot/http"
	"repopilot/janitor"
	"repopilot/ratelimit"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := ratelimit.New(ratelimit.DefaultConfig())

	server := rphttp.NewServer()
	server.Addr = c.Addr
	server.AllowedOrigins = c.Origins
	server.SessionService = deps.Sessions
	server.ConversationService = deps.Conversations
	server.DocumentationService = deps.Documentation
	server.Ingestor = deps.Ingestor
	server.DocGenerator = deps.DocGenerator
	server.Asker = deps.Asker
	server.KeyValidator = deps.Validator
	server.Limiter = limiter
	server.Logger = deps.Logger
	server.APIKeyConfigured = deps.APIKeyConfigured

	if err := server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	jan := janitor.New(deps.Sessions, deps.Logger,
		janitor.WithLimiterPrune(limiter.Prune),
	)
	go jan.Run(ctx)

	fmt.Fprintf(deps.Stdout, "repopilot listening on %s\n", c.Addr)

	<-ctx.Done()
	deps.Logger.Info("shutting down")
	return server.Close()
}
