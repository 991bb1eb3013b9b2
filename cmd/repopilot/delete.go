package main

import (
	"fmt"

	"repopilot"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Sessions.DeleteSession(deps.Ctx, c.Session); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted session %s\n", c.Session)
	return nil
}
