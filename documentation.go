package repopilot

import (
	"context"
	"fmt"
	"time"
)

// Chapter is one markdown section of generated documentation.
type Chapter struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
}

// ChapterKey returns the map key for a chapter number, e.g. "chapter_1".
func ChapterKey(number int) string {
	return fmt.Sprintf("chapter_%d", number)
}

// DocMetadata captures the intermediate pipeline artifacts that produced a
// documentation set. Useful for debugging generation quality.
type DocMetadata struct {
	ComprehensiveSummary string `json:"comprehensive_summary"`
	Abstractions         string `json:"abstractions"`
	Relationships        string `json:"relationships"`
	RawChapterStructure  string `json:"raw_chapter_structure"`
	TotalChapters        int    `json:"total_chapters"`
	TotalDiagrams        int    `json:"total_diagrams"`
}

// Documentation is a complete generated documentation set for a repository.
type Documentation struct {
	SessionID    string             `json:"sessionId"`
	RepoURL      string             `json:"repo_url"`
	Introduction string             `json:"introduction"`
	Chapters     map[string]Chapter `json:"chapters"`
	Diagrams     map[string]string  `json:"mermaid_diagrams,omitempty"`
	Metadata     DocMetadata        `json:"metadata"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}

// Validate returns an error if the documentation contains invalid fields.
func (d *Documentation) Validate() error {
	if d.SessionID == "" {
		return Errorf(EINVALID, "documentation session ID required")
	}
	if d.Introduction == "" && len(d.Chapters) == 0 {
		return Errorf(EINVALID, "documentation requires an introduction or chapters")
	}
	return nil
}

// OrderedChapters returns the chapters sorted by number.
func (d *Documentation) OrderedChapters() []Chapter {
	chapters := make([]Chapter, 0, len(d.Chapters))
	for n := 1; n <= len(d.Chapters); n++ {
		if ch, ok := d.Chapters[ChapterKey(n)]; ok {
			chapters = append(chapters, ch)
		}
	}
	// Fall back to whatever keys exist if numbering has gaps.
	if len(chapters) != len(d.Chapters) {
		chapters = chapters[:0]
		for _, ch := range d.Chapters {
			chapters = append(chapters, ch)
		}
		for i := 1; i < len(chapters); i++ {
			for j := i; j > 0 && chapters[j].Number < chapters[j-1].Number; j-- {
				chapters[j], chapters[j-1] = chapters[j-1], chapters[j]
			}
		}
	}
	return chapters
}

// DocumentationService persists generated documentation sets.
type DocumentationService interface {
	// SaveDocumentation stores a documentation set, replacing any previous
	// set for the same session.
	SaveDocumentation(ctx context.Context, doc *Documentation) error

	// FindDocumentationBySession retrieves the documentation for a session.
	// Returns ENOTFOUND if none has been generated.
	FindDocumentationBySession(ctx context.Context, sessionID string) (*Documentation, error)

	// DeleteDocumentationBySession removes stored documentation for a session.
	DeleteDocumentationBySession(ctx context.Context, sessionID string) error
}
