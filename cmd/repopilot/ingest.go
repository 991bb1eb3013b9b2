package main

import (
	"context"
	"fmt"

	"repopilot"
	rphttp "repopilot/http"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	if err := repopilot.ValidateRepoURL(c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	ctx, cancel := context.WithTimeout(deps.Ctx, rphttp.IngestTimeout)
	defer cancel()

	snapshot, err := deps.Ingestor.Ingest(ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	if snapshot.TotalSize() > repopilot.MaxSnapshotSize {
		err := repopilot.Errorf(repopilot.ETOOLARGE, "repository too large (max %d MB)", repopilot.MaxSnapshotSize>>20)
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	session := &repopilot.Session{
		RepoURL:     c.URL,
		Summary:     snapshot.Summary,
		Tree:        snapshot.Tree,
		Content:     snapshot.Content,
		ContentSize: len(snapshot.Content),
	}
	if len(session.Content) > repopilot.MaxContentSize {
		session.Content = session.Content[:repopilot.MaxContentSize]
	}

	if err := deps.Sessions.CreateSession(deps.Ctx, session); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Session %s\n", session.ID)
	fmt.Fprintf(deps.Stdout, "Files analyzed: %d (%d skipped)\n", snapshot.FileCount, snapshot.SkippedCount)
	if deps.Tokens != nil {
		if n, err := deps.Tokens.CountTokens(deps.Ctx, snapshot.Content); err == nil {
			fmt.Fprintf(deps.Stdout, "Estimated tokens: %d\n", n)
		}
	}
	fmt.Fprintln(deps.Stdout, snapshot.Summary)
	return nil
}
