// Package mermaid cleans and validates Mermaid diagram source produced by
// LLMs. Models frequently wrap diagrams in markdown fences, emit broken
// arrow syntax, or use node identifiers with characters Mermaid rejects.
package mermaid

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	connectionRe   = regexp.MustCompile(`(\w+)\s*-->\s*(\w+)`)
	colonLabelRe   = regexp.MustCompile(`(\w+)\s*--\s*([^>]*)::`)
	dotSuffixRe    = regexp.MustCompile(`\[([^\]]*)\.(xaml\.cs|cs)([^\]]*)\]`)
	dashLabelRe    = regexp.MustCompile(`\[([^\]]*)\s-\s([^\]]*)\]`)
	parenSourceRe  = regexp.MustCompile(`\(([^)]+)\)\s*--`)
	parenTargetRe  = regexp.MustCompile(`-->\s*\(([^)]+)\)`)
	fileExtLabelRe = regexp.MustCompile(`\[([^[\]]*)\.(sln|xaml|cs|cpp|h)([^[\]]*)\]`)
	invalidIDRe    = regexp.MustCompile(`[^a-zA-Z0-9_]`)
)

// diagramTypes are the prefixes accepted by Valid.
var diagramTypes = []string{"graph", "flowchart", "sequenceDiagram", "classDiagram", "erDiagram"}

// Clean extracts and repairs Mermaid source from LLM output. It strips
// markdown fences, fixes common syntax problems, and validates the result.
// Returns the empty string when no valid diagram can be recovered.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	var collected []string
	inFence := false
	sawFence := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			sawFence = true
			continue
		}
		if inFence {
			collected = append(collected, line)
		}
	}

	// No fences at all: take the text as-is.
	if !sawFence {
		collected = lines
	}

	result := strings.TrimSpace(strings.Join(collected, "\n"))
	result = fixSyntax(result)
	result = postProcess(result)

	if !Valid(result) {
		return ""
	}
	return result
}

// Valid reports whether the text begins with a supported diagram type.
func Valid(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	first := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	for _, dt := range diagramTypes {
		if strings.HasPrefix(first, dt) {
			return true
		}
	}
	return false
}

// fixSyntax repairs arrow syntax, node identifiers, and subgraph spacing.
func fixSyntax(text string) string {
	lines := strings.Split(text, "\n")
	fixed := make([]string, 0, len(lines))

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		if stripped == "" {
			fixed = append(fixed, line)
			continue
		}

		// Subgraphs need a blank line after "end" before the next one.
		if stripped == "end" {
			fixed = append(fixed, line)
			if i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "subgraph") {
				fixed = append(fixed, "")
			}
			continue
		}

		if strings.Contains(stripped, "-->") || strings.Contains(stripped, "--") {
			line = strings.ReplaceAll(line, " -- ", " --> ")
			line = strings.ReplaceAll(line, "--  ", "-- ")
			line = colonLabelRe.ReplaceAllString(line, "$1 -- ${2}_")
			line = connectionRe.ReplaceAllStringFunc(line, func(m string) string {
				parts := connectionRe.FindStringSubmatch(m)
				return CleanNodeID(parts[1]) + " --> " + CleanNodeID(parts[2])
			})
		}

		if strings.Contains(stripped, "[") && strings.Contains(stripped, "]") {
			line = dotSuffixRe.ReplaceAllString(line, "[${1}_$2$3]")
			line = dashLabelRe.ReplaceAllString(line, "[${1}_$2]")
		}

		fixed = append(fixed, line)
	}

	return strings.Join(fixed, "\n")
}

// postProcess converts parenthesized nodes to bracket nodes and strips file
// extensions from node labels.
func postProcess(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	processed := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.Contains(line, "-->") {
			line = parenSourceRe.ReplaceAllString(line, "[$1] --")
			line = parenTargetRe.ReplaceAllString(line, "--> [$1]")
		}
		if strings.Contains(line, "[") && strings.Contains(line, "]") {
			line = fileExtLabelRe.ReplaceAllString(line, "[${1}_$2$3]")
		}
		processed = append(processed, line)
	}

	return strings.Join(processed, "\n")
}

// CleanNodeID rewrites a node identifier to only contain characters Mermaid
// accepts, prefixing it when it does not start with a letter.
func CleanNodeID(id string) string {
	cleaned := invalidIDRe.ReplaceAllString(id, "_")
	if cleaned == "" {
		return "node"
	}
	if !unicode.IsLetter(rune(cleaned[0])) {
		cleaned = "node_" + cleaned
	}
	return cleaned
}
