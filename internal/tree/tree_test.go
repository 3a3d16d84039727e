package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/promptdock/promptdock/internal/kv"
	"github.com/promptdock/promptdock/internal/models"
	"github.com/promptdock/promptdock/internal/storage"
)

func newTestPromptTree(t *testing.T) (*PromptTree, *storage.FileStore) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "prompts"))
	if err := store.EnsureReady(); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}
	return NewPromptTree(store, NewCollator("en")), store
}

func labels(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Label)
	}
	return out
}

func TestPromptTreeFoldersBeforePrompts(t *testing.T) {
	tree, store := newTestPromptTree(t)
	if _, err := store.CreateFolder("zeta"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateFolder("alpha"); err != nil {
		t.Fatal(err)
	}

	nodes := tree.Nodes()
	want := []string{"alpha", "zeta", "Code_Explanation", "Code_Refactoring", "Debug_Help"}
	got := labels(nodes)
	if len(got) != len(want) {
		t.Fatalf("nodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("nodes = %v, want %v", got, want)
		}
	}

	if !nodes[0].IsBranch() || nodes[0].Kind != KindFolder {
		t.Errorf("first node should be a folder, got %+v", nodes[0])
	}
	if nodes[2].Kind != KindPrompt || nodes[2].Prompt == nil {
		t.Errorf("prompt node missing snapshot: %+v", nodes[2])
	}
}

func TestPromptTreeSortIsCaseInsensitive(t *testing.T) {
	tree, store := newTestPromptTree(t)
	for _, p := range store.ListPrompts() {
		if _, err := store.DeletePrompt(p.FilePath); err != nil {
			t.Fatal(err)
		}
	}
	for _, title := range []string{"banana", "Apple", "cherry"} {
		if _, err := store.SavePrompt(models.NewPrompt(title, "x")); err != nil {
			t.Fatal(err)
		}
	}
	tree.Invalidate()

	got := labels(tree.Nodes())
	want := []string{"Apple", "banana", "cherry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestPromptTreeRecomputesOnlyAfterInvalidation(t *testing.T) {
	tree, store := newTestPromptTree(t)

	before := tree.Nodes()
	if len(before) != 3 {
		t.Fatalf("expected 3 seeded nodes, got %d", len(before))
	}

	if _, err := store.SavePrompt(models.NewPrompt("Added Later", "x")); err != nil {
		t.Fatal(err)
	}

	// Without an invalidation the projection serves the last computed pass.
	if got := tree.Nodes(); len(got) != 3 {
		t.Errorf("uninvalidated query re-listed: %v", labels(got))
	}

	tree.Invalidate()
	if got := tree.Nodes(); len(got) != 4 {
		t.Errorf("after invalidation expected 4 nodes, got %v", labels(got))
	}
}

func TestPromptTreeChildrenEmpty(t *testing.T) {
	tree, store := newTestPromptTree(t)
	if _, err := store.CreateFolder("notes"); err != nil {
		t.Fatal(err)
	}
	tree.Invalidate()

	for _, node := range tree.Nodes() {
		if children := tree.Children(node); len(children) != 0 {
			t.Errorf("node %s has children %v", node.Label, labels(children))
		}
	}
}

func TestFavoritesTreeFiltersMissingPaths(t *testing.T) {
	dir := t.TempDir()
	meta := storage.NewMetadataStore(kv.NewFileNamespace(filepath.Join(dir, "metadata.json")))

	present := filepath.Join(dir, "present.go")
	if err := os.WriteFile(present, []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := meta.AddFavorite(models.NewFileFavorite(present, "here")); err != nil {
		t.Fatal(err)
	}
	if err := meta.AddFavorite(models.NewFileFavorite(filepath.Join(dir, "gone.go"), "gone")); err != nil {
		t.Fatal(err)
	}

	tree := NewFavoritesTree(meta)
	nodes := tree.Nodes()
	if len(nodes) != 1 || nodes[0].Label != "here" {
		t.Errorf("nodes = %v, want just the existing file", labels(nodes))
	}

	// Filtering is at render time only; storage keeps the stale entry.
	favorites, _ := meta.Favorites()
	if len(favorites) != 2 {
		t.Errorf("stale favorite was deleted from storage, have %d", len(favorites))
	}
}

func TestDocTree(t *testing.T) {
	workspace := t.TempDir()
	docDir := filepath.Join(workspace, "doc")
	if err := os.MkdirAll(filepath.Join(docDir, "guides"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docDir, "zz.md"), []byte("# Getting Started\n\nbody"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docDir, "untitled.md"), []byte("no heading here"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docDir, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}

	tree := NewDocTree([]string{workspace}, NewCollator("en"))
	roots := tree.Nodes()
	if len(roots) != 1 {
		t.Fatalf("expected one doc root, got %v", labels(roots))
	}
	if roots[0].Label != filepath.Base(workspace)+"/doc" {
		t.Errorf("root label = %q", roots[0].Label)
	}

	children := tree.Children(roots[0])
	// Folder first, then files sorted by display title.
	want := []string{"guides", "Getting Started", "untitled"}
	got := labels(children)
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

func TestDocTreeSkipsWorkspacesWithoutDocs(t *testing.T) {
	tree := NewDocTree([]string{t.TempDir()}, NewCollator("en"))
	if nodes := tree.Nodes(); len(nodes) != 0 {
		t.Errorf("expected no roots, got %v", labels(nodes))
	}
}

func TestDocTreeChildrenOfFileIsEmpty(t *testing.T) {
	tree := NewDocTree(nil, NewCollator("en"))
	node := Node{Label: "x", Path: "/nope.md", Kind: KindDocFile}
	if children := tree.Children(node); len(children) != 0 {
		t.Errorf("file node has children: %v", labels(children))
	}
}
