package tree

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocTree is a read-only projection over the doc/ directory of each
// workspace root. Unlike the prompt tree it is recursively explorable:
// directory nodes expand to their own sorted contents. File labels come from
// the first markdown heading when one exists, otherwise from the file name
// with the extension stripped.
type DocTree struct {
	projection
	roots []string
	col   *Collator
}

// NewDocTree creates a doc tree over the given workspace roots.
func NewDocTree(roots []string, col *Collator) *DocTree {
	return &DocTree{roots: roots, col: col}
}

// Nodes returns one node per workspace that has a doc/ directory.
func (t *DocTree) Nodes() []Node {
	return t.nodesVia(t.compute)
}

func (t *DocTree) compute() []Node {
	nodes := make([]Node, 0, len(t.roots))
	for _, root := range t.roots {
		docPath := filepath.Join(root, "doc")
		info, err := os.Stat(docPath)
		if err != nil || !info.IsDir() {
			continue
		}
		nodes = append(nodes, Node{
			Label:       fmt.Sprintf("%s/doc", filepath.Base(root)),
			Path:        docPath,
			Kind:        KindDocDir,
			HasChildren: true,
		})
	}
	return nodes
}

// Children lists a directory node's own contents: subdirectories and .md
// files, folders first, then names ascending. Read errors degrade to an
// empty result.
func (t *DocTree) Children(node Node) []Node {
	if node.Kind != KindDocDir {
		return []Node{}
	}

	entries, err := os.ReadDir(node.Path)
	if err != nil {
		return []Node{}
	}

	nodes := make([]Node, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(node.Path, entry.Name())
		if entry.IsDir() {
			nodes = append(nodes, Node{
				Label:       entry.Name(),
				Path:        path,
				Kind:        KindDocDir,
				HasChildren: true,
			})
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		nodes = append(nodes, Node{
			Label: docTitle(entry.Name(), path),
			Path:  path,
			Kind:  KindDocFile,
		})
	}
	sortNodes(nodes, t.col)
	return nodes
}

// docTitle extracts a document's display title: the first "# " heading line,
// or the file name without its extension when no heading is found or the
// file cannot be read.
func docTitle(fileName, path string) string {
	fallback := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	file, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
