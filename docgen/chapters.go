package docgen

import (
	"regexp"
	"strings"
)

// chapterPlan is one entry of the parsed chapter structure.
type chapterPlan struct {
	number      int
	title       string
	description string
}

const maxChapters = 4

var (
	chapterHeadingRe = regexp.MustCompile(`(?m)^##\s+(?:Chapter\s+\d+:\s*)?(.+)$`)
	leadingHashRe    = regexp.MustCompile(`^#+\s*`)
	leadingNumberRe  = regexp.MustCompile(`^\d+\.\s*`)
	chapterPrefixRe  = regexp.MustCompile(`(?i)^Chapter\s+\d+:?\s*`)
	boldRe           = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// parseChapterStructure extracts chapter titles and descriptions from the
// model's chapter plan. Falls back to a default three-chapter outline when
// nothing parseable comes back.
func parseChapterStructure(plan string) []chapterPlan {
	matches := chapterHeadingRe.FindAllStringSubmatchIndex(plan, -1)

	var chapters []chapterPlan
	for i, m := range matches {
		title := cleanChapterTitle(plan[m[2]:m[3]])

		// Description is the text between this heading and the next.
		start := m[1]
		end := len(plan)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		chapters = append(chapters, chapterPlan{
			number:      i + 1,
			title:       title,
			description: cleanDescription(plan[start:end]),
		})
	}

	if len(chapters) == 0 {
		chapters = []chapterPlan{
			{1, "Getting Started & Overview", "Introduction to the repository and setup guide"},
			{2, "Core Architecture & Components", "Understanding the main components and architecture"},
			{3, "Key Workflows & Implementation", "How the system works and implementation details"},
		}
	}
	if len(chapters) > maxChapters {
		chapters = chapters[:maxChapters]
	}
	return chapters
}

// cleanChapterTitle strips markdown formatting and numbering from a title.
func cleanChapterTitle(title string) string {
	s := strings.TrimSpace(title)
	s = leadingHashRe.ReplaceAllString(s, "")
	s = leadingNumberRe.ReplaceAllString(s, "")
	s = chapterPrefixRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// cleanDescription collapses a description block to its first few lines.
func cleanDescription(desc string) string {
	var lines []string
	for _, line := range strings.Split(desc, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 3 {
			break
		}
	}
	s := strings.Join(lines, " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
