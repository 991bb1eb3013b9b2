package docgen

import "fmt"

const markdownRules = `FORMATTING RULES:
- Use proper markdown headings (# for h1, ## for h2, etc.)
- Code blocks must use triple backticks with a language identifier
- Lists use - for bullets or 1. for numbered items
- Bold text uses **text**, links use [text](url)
- NO raw HTML, NO mixed formatting`

func summaryPrompt(content string) string {
	return fmt.Sprintf(`You are creating documentation for developers. Output ONLY clean, properly formatted markdown.

%s

Analyze this repository and create a comprehensive summary:

Repository Content:
%s

Create a well-structured summary covering:
1. Purpose & Overview
2. Architecture & Structure
3. Key Technologies
4. Main Components
5. Data Flow
6. External Dependencies
7. Configuration & Setup

Output clean markdown only. Start with # Repository Overview`, markdownRules, content)
}

func abstractionsPrompt(content string) string {
	return fmt.Sprintf(`Analyze the repository below and identify the top 5-10 most important abstractions
that would help someone new to the codebase. For each abstraction give a concise
name and a beginner-friendly description of around 100 words, with a simple analogy.
Output ONLY clean, properly formatted markdown.

Repository Content:
%s

Output format:
# Key Abstractions

## 1. [Abstraction Name]
- **Description**: Brief description
- **Location**: Where to find it
- **Importance**: Why it matters

## 2. [Next Abstraction]
...

Use proper markdown formatting. No HTML, no mixed formatting.`, content)
}

func relationshipsPrompt(abstractions, summary string) string {
	return fmt.Sprintf(`You are creating documentation for developers. Output ONLY clean, properly formatted markdown.

Based on the following abstractions and repository summary, analyze how the
components relate. Every abstraction must appear in at least one relationship,
and each relationship should reflect one component actually calling or
depending on another. Keep labels short ("Manages", "Uses", "Inherits") and
drop unimportant relationships.

Key Abstractions:
%s

Repository Summary:
%s

Create a relationship analysis with:

# Component Relationships

## Dependencies
- Component A depends on Component B (reason)
- ...

## Data Flow
1. Step-by-step data flow
2. ...

## Communication Patterns
- Pattern description
- ...

Use proper markdown formatting.`, abstractions, summary)
}

func chapterPlanPrompt(abstractions, relationships string) string {
	return fmt.Sprintf(`You are planning a developer tutorial for this repository. Work out the most
logical order to teach the abstractions and relationships: foundational
concepts first, then data flow, then core abstractions, and finally the full
system. Output ONLY clean, properly formatted markdown.

Create EXACTLY 4 chapters based on:

Abstractions:
%s

Relationships:
%s

Output format:
# Documentation Structure

## Chapter 1: [Title]
Description of what this chapter covers...

## Chapter 2: [Title]
Description of what this chapter covers...

## Chapter 3: [Title]
Description of what this chapter covers...

## Chapter 4: [Title]
Description of what this chapter covers...

Use clear, descriptive titles.`, abstractions, relationships)
}

func chapterPrompt(number int, title, description, abstractions, relationships, summary, repoURL string) string {
	return fmt.Sprintf(`You are writing Chapter %d of a technical tutorial. Output ONLY clean, well-structured markdown.

Explain this part of the system to junior developers in a way that is
beginner-friendly yet thorough. Treat this as a guided code walkthrough.

%s
Start with # %s and keep every code block under 20 lines; break longer
examples into smaller pieces and explain each one right after it.

Chapter: %s
Description: %s

Context:
- Repository: %s
- Summary: %s
- Abstractions: %s
- Relationships: %s

TASK:
1. Begin with a short introduction: what this chapter is about and why it matters.
2. Use the abstractions to show what code is involved.
3. Use the relationships to explain how this code connects to the rest of the system.
4. Break complex abstractions into key concepts and explain them one by one.
5. Walk through the logic step by step: what each file/function does, how data
   flows, and why it is structured this way.
6. Prefer small, real code snippets from the codebase.
7. Finish with a brief summary and a "What's Next" preview of the next chapter.

Output clean markdown only, starting with the chapter title as a # heading.`,
		number, markdownRules, title, title, description, repoURL, summary, abstractions, relationships)
}

func introductionPrompt(summary, abstractions, repoURL string) string {
	return fmt.Sprintf(`You are creating the introduction page for technical documentation. Output ONLY clean, properly formatted markdown.

Repository: %s
Summary: %s
Abstractions: %s

Create an introduction with these sections:

# Introduction

## Overview
What this repository does and who should use it...

## Quick Start
Basic setup steps...

## Repository Structure
A fenced code block sketching the main folders.

## Prerequisites
- Required software
- Knowledge needed

## Getting Started
1. Step one
2. Step two
...

Output clean markdown only. Use proper headings, code blocks, and lists.`, repoURL, summary, abstractions)
}

const mermaidRules = `STRICT SYNTAX RULES:
- Use only letters, numbers, and underscores in node IDs
- Replace spaces with underscores in node IDs
- Use simple arrow syntax: A --> B
- Always put a blank line after 'end' before the next subgraph
- No special characters in node labels

Output ONLY the mermaid code, no markdown blocks, no explanations.`

func architectureDiagramPrompt(repoURL, summary, tree, content string) string {
	return fmt.Sprintf(`You are a technical architect creating mermaid diagrams. Generate ONLY the mermaid code for a high-level architecture diagram.

Repository: %s
Summary: %s
Tree Structure: %s
Content: %s

Create a flowchart TD diagram showing:
1. Main entry points (API endpoints, main files)
2. Core business logic components
3. Data persistence layers
4. External services and dependencies
5. Key data flows between components

Keep it to at most 12 nodes and group related components in subgraphs.

%s`, repoURL, summary, tree, content, mermaidRules)
}

func dataFlowDiagramPrompt(repoURL, summary, abstractions, relationships string) string {
	return fmt.Sprintf(`You are creating a mermaid data flow diagram. Generate ONLY the mermaid code.

Repository: %s
Summary: %s
Abstractions: %s
Relationships: %s

Create a flowchart LR showing where data enters the system, how it is
processed and transformed, where it is stored, and what is returned. Use
[(Database)] for storage and [Process] for operations. At most 10 nodes.

%s`, repoURL, summary, abstractions, relationships, mermaidRules)
}

func componentsDiagramPrompt(abstractions, relationships string) string {
	return fmt.Sprintf(`You are creating a mermaid component relationship diagram. Generate ONLY the mermaid code.

Abstractions: %s
Relationships: %s

Create a graph TD showing the main classes/modules as nodes and their
dependencies as edges. Use solid arrows for strong dependencies and dotted
arrows (-.->)for interfaces. Group related components in subgraphs by layer.
Use actual names from the codebase and at most 12 nodes.

%s`, abstractions, relationships, mermaidRules)
}

func sequenceDiagramPrompt(repoURL, abstractions, relationships string) string {
	return fmt.Sprintf(`You are creating a mermaid sequence diagram. Generate ONLY the mermaid code.

Repository: %s
Abstractions: %s
Relationships: %s

Create a sequenceDiagram showing the most important user workflow: the client
initiating a request, the main components processing it, database or external
service interactions, and the response flowing back. Use ->> for requests and
-->> for responses, with at most 10 interactions.

%s`, repoURL, abstractions, relationships, mermaidRules)
}

func fileStructureDiagramPrompt(tree string) string {
	return fmt.Sprintf(`You are creating a mermaid file structure diagram. Generate ONLY the mermaid code.

File Tree Structure:
%s

Create a flowchart TD showing the important folders and files: main project
folders, key configuration files, and important source directories. Skip
generated directories like node_modules. Use folder/ notation for directories,
group related folders in subgraphs, and keep it under 15 nodes.

%s`, tree, mermaidRules)
}
