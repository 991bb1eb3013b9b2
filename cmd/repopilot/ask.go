package main

import (
	"context"
	"fmt"

	"repopilot"
	rphttp "repopilot/http"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	session, err := deps.Sessions.FindSessionByID(deps.Ctx, c.Session)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	ctx, cancel := context.WithTimeout(deps.Ctx, rphttp.ChatTimeout)
	defer cancel()

	answer, err := deps.Asker.Ask(ctx, session, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
