package mermaid_test

import (
	"testing"

	"repopilot/mermaid"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Parallel()

	t.Run("extracts diagram from markdown fence", func(t *testing.T) {
		t.Parallel()

		input := "Here is the diagram:\n```mermaid\nflowchart TD\n    A --> B\n```\n"
		got := mermaid.Clean(input)

		assert.Equal(t, "flowchart TD\n    A --> B", got)
	})

	t.Run("accepts unfenced diagram", func(t *testing.T) {
		t.Parallel()

		got := mermaid.Clean("graph TD\n    A --> B")

		assert.Equal(t, "graph TD\n    A --> B", got)
	})

	t.Run("rejects non-diagram output", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, mermaid.Clean("Sorry, I cannot create a diagram."))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, mermaid.Clean(""))
	})

	t.Run("sanitizes node identifiers in connections", func(t *testing.T) {
		t.Parallel()

		got := mermaid.Clean("flowchart TD\n    A --> B\n    foo --> bar")

		assert.Contains(t, got, "foo --> bar")
	})

	t.Run("inserts blank line between subgraphs", func(t *testing.T) {
		t.Parallel()

		input := "flowchart TD\n    subgraph \"One\"\n    A\n    end\n    subgraph \"Two\"\n    B\n    end"
		got := mermaid.Clean(input)

		assert.Contains(t, got, "end\n\n    subgraph \"Two\"")
	})

	t.Run("converts parenthesized nodes to brackets", func(t *testing.T) {
		t.Parallel()

		got := mermaid.Clean("flowchart TD\n    A --> (Store)")

		assert.Contains(t, got, "--> [Store]")
	})

	t.Run("strips problematic file extensions from labels", func(t *testing.T) {
		t.Parallel()

		got := mermaid.Clean("flowchart TD\n    A[main.cs] --> B")

		assert.Contains(t, got, "A[main_cs]")
	})
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"flowchart", "flowchart TD\n A --> B", true},
		{"graph", "graph LR\n A --> B", true},
		{"sequence diagram", "sequenceDiagram\n    User->>API: Request", true},
		{"class diagram", "classDiagram\n class Foo", true},
		{"er diagram", "erDiagram\n A ||--o{ B : has", true},
		{"prose", "I think the diagram should show...", false},
		{"empty", "", false},
		{"whitespace", "   \n  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, mermaid.Valid(tt.text))
		})
	}
}

func TestCleanNodeID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "foo_bar", mermaid.CleanNodeID("foo.bar"))
	assert.Equal(t, "node_1a", mermaid.CleanNodeID("1a"))
	assert.Equal(t, "node", mermaid.CleanNodeID(""))
	assert.Equal(t, "plain", mermaid.CleanNodeID("plain"))
}
