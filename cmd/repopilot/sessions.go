package main

import (
	"fmt"

	"repopilot"
)

// Run executes the sessions command.
func (c *SessionsCmd) Run(deps *Dependencies) error {
	sessions, err := deps.Sessions.FindSessions(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(deps.Stdout, "No active sessions. Use 'repopilot ingest' to create one.")
		return nil
	}

	for _, s := range sessions {
		fmt.Fprintf(deps.Stdout, "%s  %s  %.1fKB  accessed %s\n",
			s.ID, s.RepoURL, float64(s.ContentSize)/1024,
			s.LastAccessed.Format("2006-01-02 15:04"))
	}

	stats, err := deps.Sessions.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\n%d sessions, %d conversations, %.1f KB stored\n",
		stats.Sessions, stats.Conversations, float64(stats.TotalBytes())/1024)
	return nil
}
