package storage

import (
	"path/filepath"
	"testing"

	"github.com/promptdock/promptdock/internal/kv"
	"github.com/promptdock/promptdock/internal/models"
)

func newTestMetaStore(t *testing.T) *MetadataStore {
	t.Helper()
	ns := kv.NewFileNamespace(filepath.Join(t.TempDir(), "metadata.json"))
	return NewMetadataStore(ns)
}

func TestMissingCollectionsReadEmpty(t *testing.T) {
	meta := newTestMetaStore(t)

	prompts, err := meta.Prompts()
	if err != nil || len(prompts) != 0 {
		t.Errorf("Prompts() = %v, %v; want empty", prompts, err)
	}
	folders, err := meta.Folders()
	if err != nil || len(folders) != 0 {
		t.Errorf("Folders() = %v, %v; want empty", folders, err)
	}
	favorites, err := meta.Favorites()
	if err != nil || len(favorites) != 0 {
		t.Errorf("Favorites() = %v, %v; want empty", favorites, err)
	}
}

func TestAddAndDeletePrompt(t *testing.T) {
	meta := newTestMetaStore(t)

	p := models.NewPrompt("One", "body")
	if err := meta.AddPrompt(p); err != nil {
		t.Fatalf("AddPrompt failed: %v", err)
	}

	got, err := meta.PromptByID(p.ID)
	if err != nil {
		t.Fatalf("PromptByID failed: %v", err)
	}
	if got == nil || got.Title != "One" {
		t.Fatalf("PromptByID = %+v", got)
	}

	if err := meta.DeletePrompt(p.ID); err != nil {
		t.Fatalf("DeletePrompt failed: %v", err)
	}
	if got, _ := meta.PromptByID(p.ID); got != nil {
		t.Error("prompt survived deletion")
	}
	// Deleting an unknown id is a no-op.
	if err := meta.DeletePrompt("no-such-id"); err != nil {
		t.Errorf("deleting unknown id errored: %v", err)
	}
}

func TestUpdatePromptPreservesUsageCount(t *testing.T) {
	meta := newTestMetaStore(t)

	p := models.NewPrompt("Counter", "v1")
	if err := meta.AddPrompt(p); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := meta.IncrementUsageCount(p.ID); err != nil {
			t.Fatalf("IncrementUsageCount failed: %v", err)
		}
	}

	updated := &models.Prompt{
		ID:         p.ID,
		Title:      "Counter",
		Content:    "v2",
		CreatedAt:  p.CreatedAt,
		UsageCount: 0, // caller-supplied count must not clobber the stored one
	}
	if err := meta.UpdatePrompt(updated); err != nil {
		t.Fatalf("UpdatePrompt failed: %v", err)
	}

	got, _ := meta.PromptByID(p.ID)
	if got == nil {
		t.Fatal("prompt vanished")
	}
	if got.Content != "v2" {
		t.Errorf("content = %q, want v2", got.Content)
	}
	if got.UsageCount != 3 {
		t.Errorf("usage count = %d, want preserved 3", got.UsageCount)
	}
	if got.UpdatedAt < p.CreatedAt {
		t.Errorf("UpdatedAt not stamped: %d", got.UpdatedAt)
	}
}

func TestIncrementUsageCountUnknownIDIsNoOp(t *testing.T) {
	meta := newTestMetaStore(t)
	if err := meta.IncrementUsageCount("ghost"); err != nil {
		t.Errorf("unknown id should be a no-op, got %v", err)
	}
}

func TestDeleteFolderClearsReferences(t *testing.T) {
	meta := newTestMetaStore(t)

	folder := models.NewFolder("work")
	other := models.NewFolder("home")
	if err := meta.AddFolder(folder); err != nil {
		t.Fatal(err)
	}
	if err := meta.AddFolder(other); err != nil {
		t.Fatal(err)
	}

	inFolder := models.NewPrompt("A", "a")
	inFolder.FolderID = folder.ID
	inOther := models.NewPrompt("B", "b")
	inOther.FolderID = other.ID
	loose := models.NewPrompt("C", "c")
	for _, p := range []*models.Prompt{inFolder, inOther, loose} {
		if err := meta.AddPrompt(p); err != nil {
			t.Fatal(err)
		}
	}

	if err := meta.DeleteFolder(folder.ID); err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}

	folders, _ := meta.Folders()
	if len(folders) != 1 || folders[0].ID != other.ID {
		t.Errorf("folders after delete = %+v", folders)
	}

	prompts, _ := meta.Prompts()
	for _, p := range prompts {
		switch p.ID {
		case inFolder.ID:
			if p.FolderID != "" {
				t.Errorf("prompt %s still references deleted folder", p.Title)
			}
		case inOther.ID:
			if p.FolderID != other.ID {
				t.Errorf("prompt %s lost its unrelated folder reference", p.Title)
			}
		case loose.ID:
			if p.FolderID != "" {
				t.Errorf("loose prompt gained a folder reference")
			}
		}
	}
}

func TestRenameFolder(t *testing.T) {
	meta := newTestMetaStore(t)
	folder := models.NewFolder("old")
	if err := meta.AddFolder(folder); err != nil {
		t.Fatal(err)
	}
	if err := meta.RenameFolder(folder.ID, "new"); err != nil {
		t.Fatalf("RenameFolder failed: %v", err)
	}
	folders, _ := meta.Folders()
	if len(folders) != 1 || folders[0].Name != "new" {
		t.Errorf("folders = %+v", folders)
	}
}

func TestAddFavoriteFileReplacesSamePath(t *testing.T) {
	meta := newTestMetaStore(t)

	first := models.NewFileFavorite("/tmp/a.go", "a")
	if err := meta.AddFavorite(first); err != nil {
		t.Fatal(err)
	}
	unrelated := models.NewFileFavorite("/tmp/b.go", "b")
	if err := meta.AddFavorite(unrelated); err != nil {
		t.Fatal(err)
	}

	replacement := models.NewFileFavorite("/tmp/a.go", "renamed")
	if err := meta.AddFavorite(replacement); err != nil {
		t.Fatal(err)
	}

	favorites, _ := meta.Favorites()
	if len(favorites) != 2 {
		t.Fatalf("expected replacement, got %d favorites", len(favorites))
	}
	for _, f := range favorites {
		if f.Path == "/tmp/a.go" && f.Label != "renamed" {
			t.Errorf("favorite for /tmp/a.go = %+v, want replacement", f)
		}
	}
}

func TestAddFavoriteCodeAllowsDuplicatePaths(t *testing.T) {
	meta := newTestMetaStore(t)

	one := models.NewCodeFavorite("/tmp/a.go", "first", 3, "x := 1")
	two := models.NewCodeFavorite("/tmp/a.go", "second", 9, "y := 2")
	if err := meta.AddFavorite(one); err != nil {
		t.Fatal(err)
	}
	if err := meta.AddFavorite(two); err != nil {
		t.Fatal(err)
	}

	favorites, _ := meta.Favorites()
	if len(favorites) != 2 {
		t.Errorf("code favorites should not dedupe, got %d", len(favorites))
	}
}

func TestRemoveFavorite(t *testing.T) {
	meta := newTestMetaStore(t)
	fav := models.NewFileFavorite("/tmp/a.go", "a")
	if err := meta.AddFavorite(fav); err != nil {
		t.Fatal(err)
	}
	if err := meta.RemoveFavorite(fav.ID); err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	if favorites, _ := meta.Favorites(); len(favorites) != 0 {
		t.Errorf("favorites after removal = %+v", favorites)
	}
	if err := meta.RemoveFavorite("ghost"); err != nil {
		t.Errorf("removing unknown id errored: %v", err)
	}
}

func TestMetadataRepositoryRoundTrip(t *testing.T) {
	meta := newTestMetaStore(t)
	repo := NewMetadataRepository(meta)

	if err := repo.EnsureReady(); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}

	p := models.NewPrompt("Legacy", "body")
	ref, err := repo.SavePrompt(p)
	if err != nil {
		t.Fatalf("SavePrompt failed: %v", err)
	}
	if ref != p.ID {
		t.Errorf("ref = %q, want record id", ref)
	}

	if prompts := repo.ListPrompts(); len(prompts) != 1 {
		t.Fatalf("ListPrompts = %d entries", len(prompts))
	}

	removed, err := repo.DeletePrompt(ref)
	if err != nil || !removed {
		t.Fatalf("DeletePrompt: removed=%v err=%v", removed, err)
	}
	removed, err = repo.DeletePrompt(ref)
	if err != nil || removed {
		t.Errorf("second DeletePrompt: removed=%v err=%v", removed, err)
	}
}
