// Package docgen orchestrates the multi-step documentation pipeline: it
// turns an ingested repository snapshot into a tutorial-style documentation
// set with an introduction, chapters, and Mermaid diagrams.
package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"repopilot"
	"repopilot/markdown"

	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ repopilot.DocGenerator = (*Generator)(nil)

const (
	// maxPromptContent caps repository content embedded in pipeline prompts.
	maxPromptContent = 750000

	// maxDiagramContent is smaller; diagram prompts carry extra context.
	maxDiagramContent = 500000

	// chapterConcurrency bounds parallel chapter generation.
	chapterConcurrency = 2
)

// Generator implements the documentation pipeline on top of a TextGenerator.
type Generator struct {
	llm         repopilot.TextGenerator
	cleaner     *markdown.Cleaner
	logger      *slog.Logger
	retryDelays []time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for pipeline progress.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithRetryDelays overrides the backoff delays for transient LLM errors.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(g *Generator) { g.retryDelays = delays }
}

// NewGenerator creates a documentation Generator.
func NewGenerator(llm repopilot.TextGenerator, opts ...Option) *Generator {
	g := &Generator{
		llm:         llm,
		cleaner:     markdown.NewCleaner(),
		logger:      slog.Default(),
		retryDelays: defaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateDocumentation runs the full pipeline for a session: summary,
// abstractions, relationships, chapter plan, introduction, diagrams, and
// finally the chapters themselves.
func (g *Generator) GenerateDocumentation(ctx context.Context, session *repopilot.Session) (*repopilot.Documentation, error) {
	begin := time.Now()
	opts := repopilot.GenerateOptions{APIKey: session.UserAPIKey}
	g.logger.Info("documentation generation started",
		"session", session.ID,
		"repo", session.RepoURL,
		"user_key", session.HasUserKey(),
	)

	summary, err := g.summarize(ctx, session.Content, opts)
	if err != nil {
		return nil, fmt.Errorf("generate comprehensive summary: %w", err)
	}
	g.logger.Info("pipeline step complete", "step", "summary", "session", session.ID)

	abstractions, err := g.identifyAbstractions(ctx, session.Content, opts)
	if err != nil {
		return nil, fmt.Errorf("identify abstractions: %w", err)
	}
	g.logger.Info("pipeline step complete", "step", "abstractions", "session", session.ID)

	relationships, err := g.analyzeRelationships(ctx, abstractions, summary, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze relationships: %w", err)
	}
	g.logger.Info("pipeline step complete", "step", "relationships", "session", session.ID)

	rawPlan, err := g.generate(ctx, chapterPlanPrompt(abstractions, relationships), opts)
	if err != nil {
		return nil, fmt.Errorf("create chapter structure: %w", err)
	}
	plan := parseChapterStructure(rawPlan)
	g.logger.Info("pipeline step complete", "step", "chapter_plan", "session", session.ID, "chapters", len(plan))

	introduction, err := g.generate(ctx, introductionPrompt(summary, abstractions, session.RepoURL), opts)
	if err != nil {
		return nil, fmt.Errorf("create introduction: %w", err)
	}
	g.logger.Info("pipeline step complete", "step", "introduction", "session", session.ID)

	diagrams := g.generateAllDiagrams(ctx, diagramInput{
		repoURL:       session.RepoURL,
		summary:       summary,
		tree:          session.Tree,
		content:       session.Content,
		abstractions:  abstractions,
		relationships: relationships,
	}, opts)

	chapters, err := g.writeChapters(ctx, plan, abstractions, relationships, summary, session.RepoURL, opts)
	if err != nil {
		return nil, err
	}

	doc := &repopilot.Documentation{
		SessionID:    session.ID,
		RepoURL:      session.RepoURL,
		Introduction: introduction,
		Chapters:     chapters,
		Diagrams:     diagrams,
		Metadata: repopilot.DocMetadata{
			ComprehensiveSummary: summary,
			Abstractions:         abstractions,
			Relationships:        relationships,
			RawChapterStructure:  rawPlan,
			TotalChapters:        len(chapters),
			TotalDiagrams:        len(diagrams),
		},
		GeneratedAt: time.Now().UTC(),
	}

	g.logger.Info("documentation generation complete",
		"session", session.ID,
		"chapters", len(chapters),
		"diagrams", len(diagrams),
		"duration", time.Since(begin),
	)
	return doc, nil
}

func (g *Generator) summarize(ctx context.Context, content string, opts repopilot.GenerateOptions) (string, error) {
	return g.generate(ctx, summaryPrompt(truncateMiddle(content, maxPromptContent)), opts)
}

func (g *Generator) identifyAbstractions(ctx context.Context, content string, opts repopilot.GenerateOptions) (string, error) {
	return g.generate(ctx, abstractionsPrompt(truncateMiddle(content, maxPromptContent)), opts)
}

func (g *Generator) analyzeRelationships(ctx context.Context, abstractions, summary string, opts repopilot.GenerateOptions) (string, error) {
	return g.generate(ctx, relationshipsPrompt(abstractions, summary), opts)
}

// generate runs a single prompt, with retry, and cleans the markdown output.
func (g *Generator) generate(ctx context.Context, prompt string, opts repopilot.GenerateOptions) (string, error) {
	out, err := g.generateWithRetry(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	return g.cleaner.Clean(out), nil
}

// writeChapters generates chapter contents concurrently. Individual chapter
// failures are logged and skipped; only a fully failed set is an error.
func (g *Generator) writeChapters(ctx context.Context, plan []chapterPlan, abstractions, relationships, summary, repoURL string, opts repopilot.GenerateOptions) (map[string]repopilot.Chapter, error) {
	contents := make([]string, len(plan))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(chapterConcurrency)
	for i, ch := range plan {
		eg.Go(func() error {
			content, err := g.generate(ctx, chapterPrompt(ch.number, ch.title, ch.description, abstractions, relationships, summary, repoURL), opts)
			if err != nil {
				g.logger.Warn("chapter generation failed", "chapter", ch.number, "err", err)
				return nil
			}
			if !strings.HasPrefix(strings.TrimSpace(content), "#") {
				content = fmt.Sprintf("# %s\n\n%s", ch.title, content)
			}
			if v := g.cleaner.Validate(content); !v.Valid {
				g.logger.Warn("chapter markdown issues", "chapter", ch.number, "issues", v.Issues)
			}
			contents[i] = content
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	chapters := make(map[string]repopilot.Chapter)
	for i, ch := range plan {
		if contents[i] == "" {
			continue
		}
		chapters[repopilot.ChapterKey(ch.number)] = repopilot.Chapter{
			Number:      ch.number,
			Title:       ch.title,
			Content:     contents[i],
			Description: ch.description,
			Sections:    repopilot.ExtractSections(contents[i]),
		}
	}
	if len(chapters) == 0 {
		return nil, repopilot.Errorf(repopilot.EINTERNAL, "failed to generate any chapters")
	}
	return chapters, nil
}

// truncateMiddle keeps the head and tail of oversized content, dropping
// the middle. Models see the entry points and the most recent files.
func truncateMiddle(content string, max int) string {
	if len(content) <= max {
		return content
	}
	half := max / 2
	return content[:half] +
		"\n\n... [content truncated, middle section removed for processing] ...\n\n" +
		content[len(content)-half:]
}
