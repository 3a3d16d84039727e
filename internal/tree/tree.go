// Package tree projects store state into ordered two-level node lists for
// incremental display.
//
// Projections hold no authoritative state: every query recomputes the visible
// nodes from the current store or filesystem contents. Collaborators fire
// Invalidate after any mutation or detected external change; each
// invalidation causes exactly one re-list on the next query. With tens to low
// hundreds of prompts a full re-list is cheap enough that no diffing is done.
package tree

import (
	"sort"
	"sync"

	"github.com/promptdock/promptdock/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Kind classifies a tree node.
type Kind string

const (
	KindFolder   Kind = "folder"
	KindPrompt   Kind = "prompt"
	KindDocDir   Kind = "docdir"
	KindDocFile  Kind = "docfile"
	KindFavorite Kind = "favorite"
)

// Node is one visible entry in a projected tree.
type Node struct {
	Label       string
	Path        string
	Kind        Kind
	HasChildren bool

	// Prompt is set for prompt nodes; it is a snapshot from the listing
	// pass that produced this node, not a live record.
	Prompt *models.Prompt
	// Favorite is set for favorite nodes.
	Favorite *models.FavoriteItem
}

// IsBranch reports whether the node can have children.
func (n Node) IsBranch() bool {
	return n.Kind == KindFolder || n.Kind == KindDocDir
}

// Collator orders node labels in a locale-aware, case-insensitive way.
type Collator struct {
	c *collate.Collator
}

// NewCollator builds a collator for the given BCP 47 locale tag. Unparsable
// tags fall back to the undetermined locale.
func NewCollator(locale string) *Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Collator{c: collate.New(tag, collate.IgnoreCase)}
}

// Less compares two labels.
func (col *Collator) Less(a, b string) bool {
	return col.c.CompareString(a, b) < 0
}

// sortNodes orders folders before leaves, then each class by label,
// ascending.
func sortNodes(nodes []Node, col *Collator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsBranch() != nodes[j].IsBranch() {
			return nodes[i].IsBranch()
		}
		return col.Less(nodes[i].Label, nodes[j].Label)
	})
}

// projection implements the invalidation contract shared by all trees: a
// generation counter bumped by Invalidate, and a cached node list that is
// recomputed only when the generation moved since the last compute.
type projection struct {
	mu          sync.Mutex
	gen         uint64
	computedGen uint64
	computed    bool
	nodes       []Node
}

// Invalidate marks the projection stale. The next Nodes call re-lists.
func (p *projection) Invalidate() {
	p.mu.Lock()
	p.gen++
	p.mu.Unlock()
}

// nodesVia returns the cached node list, recomputing it via compute when an
// invalidation arrived since the last pass.
func (p *projection) nodesVia(compute func() []Node) []Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.computed || p.computedGen != p.gen {
		p.nodes = compute()
		p.computedGen = p.gen
		p.computed = true
	}
	return p.nodes
}
