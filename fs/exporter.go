// Package fs exports generated documentation as a markdown directory.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"repopilot"
)

// Exporter writes a documentation set to disk with atomic update
// semantics: files land in a temporary directory first and move into
// place on Commit.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter. Files are written to
// baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{baseDir: baseDir, name: name}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Export writes the documentation set to the temporary directory:
// an index page, one file per chapter, and the diagram set.
func (e *Exporter) Export(doc *repopilot.Documentation) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}

	if err := e.writeFile("index.md", formatPage(doc, "Introduction", doc.Introduction)); err != nil {
		return err
	}

	for _, ch := range doc.OrderedChapters() {
		name := fmt.Sprintf("%02d-%s.md", ch.Number, slugify(ch.Title))
		if err := e.writeFile(name, formatPage(doc, ch.Title, ch.Content)); err != nil {
			return err
		}
	}

	for name, diagram := range doc.Diagrams {
		content := "```mermaid\n" + diagram + "\n```\n"
		if err := e.writeFile(filepath.Join("diagrams", name+".md"), content); err != nil {
			return err
		}
	}

	return nil
}

// Commit atomically replaces the final directory with the exported files.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the temporary directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

func (e *Exporter) writeFile(rel, content string) error {
	fullPath := filepath.Join(e.tempDir(), rel)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// formatPage renders a page with YAML frontmatter.
func formatPage(doc *repopilot.Documentation, title, content string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.RepoURL)
	b.WriteString("\ntitle: ")
	b.WriteString(title)
	b.WriteString("\ngenerated: ")
	b.WriteString(doc.GeneratedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// slugify turns a chapter title into a safe file name component.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if slug == "" {
		slug = "chapter"
	}
	return slug
}
