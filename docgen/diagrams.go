package docgen

import (
	"context"

	"repopilot"
	"repopilot/mermaid"
)

// diagramInput carries the context shared by the diagram prompts.
type diagramInput struct {
	repoURL       string
	summary       string
	tree          string
	content       string
	abstractions  string
	relationships string
}

// GenerateDiagrams produces the Mermaid diagram set for a session. The
// abstractions, summary, and relationships are regenerated first; failures
// there degrade to the ingest summary rather than aborting.
func (g *Generator) GenerateDiagrams(ctx context.Context, session *repopilot.Session) (map[string]string, error) {
	opts := repopilot.GenerateOptions{APIKey: session.UserAPIKey}

	abstractions, err := g.identifyAbstractions(ctx, session.Content, opts)
	if err != nil {
		g.logger.Warn("abstractions for diagrams failed", "session", session.ID, "err", err)
		abstractions = "No abstractions identified"
	}
	summary, err := g.summarize(ctx, session.Content, opts)
	if err != nil {
		g.logger.Warn("summary for diagrams failed", "session", session.ID, "err", err)
		summary = session.Summary
	}
	relationships, err := g.analyzeRelationships(ctx, abstractions, summary, opts)
	if err != nil {
		g.logger.Warn("relationships for diagrams failed", "session", session.ID, "err", err)
		relationships = "No relationships identified"
	}

	diagrams := g.generateAllDiagrams(ctx, diagramInput{
		repoURL:       session.RepoURL,
		summary:       summary,
		tree:          session.Tree,
		content:       session.Content,
		abstractions:  abstractions,
		relationships: relationships,
	}, opts)

	if err := ctx.Err(); err != nil && len(diagrams) == 0 {
		return nil, repopilot.Errorf(repopilot.ETIMEOUT, "diagram generation timed out, the repository might be too complex")
	}
	return diagrams, nil
}

// generateAllDiagrams runs every diagram prompt, keeping whichever ones
// come back as valid Mermaid. A failed diagram is skipped, not fatal.
func (g *Generator) generateAllDiagrams(ctx context.Context, in diagramInput, opts repopilot.GenerateOptions) map[string]string {
	content := truncateMiddle(in.content, maxDiagramContent)

	prompts := []struct {
		name   string
		prompt string
	}{
		{"architecture", architectureDiagramPrompt(in.repoURL, in.summary, in.tree, content)},
		{"data_flow", dataFlowDiagramPrompt(in.repoURL, in.summary, in.abstractions, in.relationships)},
		{"components", componentsDiagramPrompt(in.abstractions, in.relationships)},
		{"sequence", sequenceDiagramPrompt(in.repoURL, in.abstractions, in.relationships)},
		{"file_structure", fileStructureDiagramPrompt(in.tree)},
	}

	diagrams := make(map[string]string)
	for _, p := range prompts {
		out, err := g.generateWithRetry(ctx, p.prompt, opts)
		if err != nil {
			g.logger.Warn("diagram generation failed", "diagram", p.name, "err", err)
			continue
		}
		cleaned := mermaid.Clean(out)
		if cleaned == "" {
			g.logger.Warn("diagram failed validation", "diagram", p.name)
			continue
		}
		diagrams[p.name] = cleaned
	}
	g.logger.Info("diagram generation complete", "count", len(diagrams))
	return diagrams
}
