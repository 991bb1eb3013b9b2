package main

import (
	"context"
	"fmt"
	"path"
	"strings"

	"repopilot"
	"repopilot/fs"
	rphttp "repopilot/http"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	session, err := deps.Sessions.FindSessionByID(deps.Ctx, c.Session)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	ctx, cancel := context.WithTimeout(deps.Ctx, rphttp.DocsTimeout)
	defer cancel()

	doc, err := deps.DocGenerator.GenerateDocumentation(ctx, session)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	if err := deps.Documentation.SaveDocumentation(deps.Ctx, doc); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Generated %d chapters and %d diagrams for %s\n",
		len(doc.Chapters), len(doc.Diagrams), session.RepoURL)

	if c.Out == "" {
		return nil
	}

	exporter := fs.NewExporter(c.Out, repoSlug(session.RepoURL))
	if err := exporter.Export(doc); err != nil {
		_ = exporter.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}
	if err := exporter.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repopilot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported to %s\n", c.Out)
	return nil
}

func repoSlug(repoURL string) string {
	name := strings.TrimSuffix(path.Base(repoURL), ".git")
	if name == "" || name == "." || name == "/" {
		return "repository"
	}
	return name
}
