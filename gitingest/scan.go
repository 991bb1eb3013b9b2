package gitingest

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"repopilot"
	"repopilot/bloom"
)

// Directories whose contents rarely help a model understand a codebase.
var excludedDirs = map[string]bool{
	"tests":        true,
	"docs":         true,
	"assets":       true,
	"data":         true,
	"public":       true,
	"examples":     true,
	"images":       true,
	"static":       true,
	"temp":         true,
	"venv":         true,
	".venv":        true,
	"v1":           true,
	"dist":         true,
	"build":        true,
	"experimental": true,
	"deprecated":   true,
	"misc":         true,
	"legacy":       true,
	".git":         true,
	".github":      true,
	".next":        true,
	".vscode":      true,
	"obj":          true,
	"bin":          true,
	"node_modules": true,
}

var excludedFiles = map[string]bool{
	"package-lock.json": true,
}

// Scan walks a checked-out repository rooted at dir and assembles a
// Snapshot. Files are skipped when they match an exclude pattern, exceed
// maxFileSize, look binary, or duplicate content already seen.
func Scan(dir, name string, maxFileSize int64) (*repopilot.Snapshot, error) {
	var (
		included []string
		content  strings.Builder
		skipped  int
	)
	seen := bloom.NewFilter(10000, 0.001)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if excludeFile(rel) {
			skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxFileSize {
			skipped++
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if isBinary(data) {
			skipped++
			return nil
		}
		if seen.Seen(data) {
			skipped++
			return nil
		}

		included = append(included, rel)
		content.WriteString(fileHeader(rel))
		content.Write(data)
		if !bytes.HasSuffix(data, []byte("\n")) {
			content.WriteByte('\n')
		}
		content.WriteByte('\n')
		return nil
	})
	if err != nil {
		return nil, err
	}

	snapshot := &repopilot.Snapshot{
		Tree:         renderTree(name, included),
		Content:      content.String(),
		FileCount:    len(included),
		SkippedCount: skipped,
	}
	snapshot.Summary = fmt.Sprintf("Repository: %s\nFiles analyzed: %d\nTotal size: %.1fKB",
		name, len(included), float64(len(snapshot.Content))/1024)
	return snapshot, nil
}

func excludeDir(name string) bool {
	if excludedDirs[name] {
		return true
	}
	return strings.Contains(strings.ToLower(name), "test")
}

func excludeFile(rel string) bool {
	base := path.Base(rel)
	if excludedFiles[base] {
		return true
	}
	if strings.Contains(strings.ToLower(base), "test") {
		return true
	}
	return strings.HasSuffix(base, ".log")
}

// isBinary reports whether data looks like a binary file. A NUL byte in
// the first 8KB or invalid UTF-8 is treated as binary.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return true
	}
	return !utf8.Valid(probe)
}

func fileHeader(rel string) string {
	const rule = "================================================"
	return fmt.Sprintf("%s\nFILE: %s\n%s\n", rule, rel, rule)
}

// treeNode is one directory or file in the rendered tree.
type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	if n.children == nil {
		n.children = map[string]*treeNode{}
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name}
		n.children[name] = c
	}
	return c
}

// renderTree draws the included files as an indented directory tree.
func renderTree(name string, files []string) string {
	root := &treeNode{name: name + "/"}
	for _, f := range files {
		node := root
		for _, part := range strings.Split(f, "/") {
			node = node.child(part)
		}
	}

	var b strings.Builder
	b.WriteString("Directory structure:\n")
	b.WriteString("└── " + root.name + "\n")
	renderChildren(&b, root, "    ")
	return b.String()
}

func renderChildren(b *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		child := node.children[name]
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(names)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		label := child.name
		if len(child.children) > 0 {
			label += "/"
		}
		b.WriteString(prefix + connector + label + "\n")
		renderChildren(b, child, childPrefix)
	}
}
