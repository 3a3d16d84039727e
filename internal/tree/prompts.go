package tree

import (
	"github.com/promptdock/promptdock/internal/storage"
)

// PromptTree projects a prompt repository into a two-level node list: folder
// nodes first, then loose prompt nodes, each class ordered by the collator.
// It consumes only the Repository interface, never a concrete backend.
type PromptTree struct {
	projection
	repo storage.Repository
	col  *Collator
}

// NewPromptTree creates a prompt tree over the given repository.
func NewPromptTree(repo storage.Repository, col *Collator) *PromptTree {
	return &PromptTree{repo: repo, col: col}
}

// Nodes returns the root-level nodes, re-listing from the repository when an
// invalidation arrived since the last query.
func (t *PromptTree) Nodes() []Node {
	return t.nodesVia(t.compute)
}

func (t *PromptTree) compute() []Node {
	folders := t.repo.ListFolders()
	prompts := t.repo.ListPrompts()

	nodes := make([]Node, 0, len(folders)+len(prompts))
	for _, f := range folders {
		nodes = append(nodes, Node{
			Label:       f.Name,
			Path:        f.Path,
			Kind:        KindFolder,
			HasChildren: true,
		})
	}
	for _, p := range prompts {
		nodes = append(nodes, Node{
			Label:  p.Title,
			Path:   p.FilePath,
			Kind:   KindPrompt,
			Prompt: p,
		})
	}
	sortNodes(nodes, t.col)
	return nodes
}

// Children returns a folder node's children. The current listing model keeps
// prompts at the root only, so folder nodes project as empty and prompt
// nodes have no children at all.
func (t *PromptTree) Children(node Node) []Node {
	return []Node{}
}
