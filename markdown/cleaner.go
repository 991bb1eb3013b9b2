// Package markdown normalizes LLM-generated markdown. Model output tends to
// drift: malformed headings, inconsistent list markers, broken emphasis, and
// missing blank lines around block elements. The cleaner fixes these while
// leaving code blocks and inline code untouched.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// Cleaner normalizes markdown content produced by LLMs.
type Cleaner struct {
	codeBlockRe  *regexp.Regexp
	inlineCodeRe *regexp.Regexp

	headingRe        *regexp.Regexp
	trailingHashRe   *regexp.Regexp
	bulletRe         *regexp.Regexp
	numberedRe       *regexp.Regexp
	boldSpaceRe      *regexp.Regexp
	italicSpaceRe    *regexp.Regexp
	beforeHeadingRe  *regexp.Regexp
	beforeFenceRe    *regexp.Regexp
	afterFenceRe     *regexp.Regexp
	excessBlanksRe   *regexp.Regexp
	anyHeadingRe     *regexp.Regexp
	excessiveBreakRe *regexp.Regexp
}

// NewCleaner creates a new Cleaner with precompiled patterns.
func NewCleaner() *Cleaner {
	return &Cleaner{
		codeBlockRe:  regexp.MustCompile("(?s)```\\w*\n.*?```"),
		inlineCodeRe: regexp.MustCompile("`[^`]+`"),

		headingRe:        regexp.MustCompile(`^(#{1,6})\s*(.+)`),
		trailingHashRe:   regexp.MustCompile(`\s*#+\s*$`),
		bulletRe:         regexp.MustCompile(`^\s*[*\-+]\s+`),
		numberedRe:       regexp.MustCompile(`^(\s*)\d+\.\s+`),
		boldSpaceRe:      regexp.MustCompile(`\*\*\s+([^*]+)\s+\*\*`),
		italicSpaceRe:    regexp.MustCompile(`\*\s+([^*]+)\s+\*`),
		beforeHeadingRe:  regexp.MustCompile("([^\n])\n(#{1,6} )"),
		beforeFenceRe:    regexp.MustCompile("([^\n])\n```"),
		afterFenceRe:     regexp.MustCompile("```\n([^\n])"),
		excessBlanksRe:   regexp.MustCompile("\n{3,}"),
		anyHeadingRe:     regexp.MustCompile(`(?m)^#{1,6}\s`),
		excessiveBreakRe: regexp.MustCompile("\n{4,}"),
	}
}

// Clean normalizes markdown content from an LLM.
func (c *Cleaner) Clean(content string) string {
	if content == "" {
		return ""
	}

	// Preserve code blocks and inline code behind placeholders so the
	// line-level fixes cannot mangle them.
	var codeBlocks []string
	content = c.codeBlockRe.ReplaceAllStringFunc(content, func(m string) string {
		codeBlocks = append(codeBlocks, m)
		return fmt.Sprintf("__CODE_BLOCK_%d__", len(codeBlocks)-1)
	})

	var inlineCodes []string
	content = c.inlineCodeRe.ReplaceAllStringFunc(content, func(m string) string {
		inlineCodes = append(inlineCodes, m)
		return fmt.Sprintf("__INLINE_CODE_%d__", len(inlineCodes)-1)
	})

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))

	for i, line := range lines {
		if i == 0 && strings.TrimSpace(line) == "" {
			continue
		}

		line = c.fixHeading(line)
		line = c.fixListItem(line)
		line = c.fixEmphasis(line)

		if strings.TrimSpace(line) != "" || (i > 0 && i < len(lines)-1) {
			cleaned = append(cleaned, strings.TrimRight(line, " \t"))
		}
	}

	content = strings.Join(cleaned, "\n")
	content = c.ensureSpacing(content)

	for i, block := range codeBlocks {
		content = strings.Replace(content, fmt.Sprintf("__CODE_BLOCK_%d__", i), block, 1)
	}
	for i, code := range inlineCodes {
		content = strings.Replace(content, fmt.Sprintf("__INLINE_CODE_%d__", i), code, 1)
	}

	return c.finalize(content)
}

// fixHeading normalizes heading markers and strips trailing hashes.
func (c *Cleaner) fixHeading(line string) string {
	if !strings.HasPrefix(line, "#") {
		return line
	}
	m := c.headingRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	text := c.trailingHashRe.ReplaceAllString(strings.TrimSpace(m[2]), "")
	return m[1] + " " + text
}

// fixListItem normalizes bullet markers to "-" and numbered markers to "1.".
func (c *Cleaner) fixListItem(line string) string {
	line = c.bulletRe.ReplaceAllString(line, "- ")
	line = c.numberedRe.ReplaceAllString(line, "${1}1. ")
	return line
}

// fixEmphasis removes stray spaces inside bold and italic markers.
func (c *Cleaner) fixEmphasis(line string) string {
	line = c.boldSpaceRe.ReplaceAllString(line, "**$1**")
	line = c.italicSpaceRe.ReplaceAllString(line, "*$1*")
	return line
}

// ensureSpacing inserts blank lines around headings and code fences and
// collapses runs of blank lines.
func (c *Cleaner) ensureSpacing(content string) string {
	content = c.beforeHeadingRe.ReplaceAllString(content, "$1\n\n$2")
	content = c.beforeFenceRe.ReplaceAllString(content, "$1\n\n```")
	content = c.afterFenceRe.ReplaceAllString(content, "```\n\n$1")
	content = c.excessBlanksRe.ReplaceAllString(content, "\n\n")
	return content
}

// finalize promotes a leading plain line to a title if the document has no
// heading, trims trailing whitespace, and ends with a single newline.
func (c *Cleaner) finalize(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "#") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) > 0 {
			first := strings.TrimSpace(lines[0])
			if first != "" && len(first) < 100 {
				lines[0] = "# " + first
				content = strings.Join(lines, "\n")
			}
		}
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")

	return strings.TrimSpace(content) + "\n"
}

// Validation reports structural issues found in markdown content.
type Validation struct {
	Valid  bool
	Issues []string
}

// Validate checks markdown structure without modifying it.
func (c *Cleaner) Validate(content string) Validation {
	var issues []string

	if !c.anyHeadingRe.MatchString(content) {
		issues = append(issues, "no headings found")
	}
	if strings.Count(content, "```")%2 != 0 {
		issues = append(issues, "unclosed code blocks detected")
	}
	if c.excessiveBreakRe.MatchString(content) {
		issues = append(issues, "excessive line breaks found")
	}

	return Validation{
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}
