// Package service provides the business logic tying stores, projections and
// the generation bridge together.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptdock/promptdock/internal/config"
	"github.com/promptdock/promptdock/internal/errors"
	"github.com/promptdock/promptdock/internal/generator"
	"github.com/promptdock/promptdock/internal/kv"
	"github.com/promptdock/promptdock/internal/models"
	"github.com/promptdock/promptdock/internal/storage"
	"github.com/promptdock/promptdock/internal/tree"
	"github.com/promptdock/promptdock/internal/validation"
	"github.com/promptdock/promptdock/internal/watcher"
	"github.com/sahilm/fuzzy"
)

// Service owns the stores and projections for one running process. The
// managed prompt directory and the metadata namespace each have exactly one
// owning store here; projections only read.
type Service struct {
	cfg *config.Config

	store  *storage.FileStore
	meta   *storage.MetadataStore
	legacy *storage.MetadataRepository

	promptTree    *tree.PromptTree
	favoritesTree *tree.FavoritesTree
	docTree       *tree.DocTree

	gen *generator.Client
	fw  *watcher.Watcher
}

// NewService wires a service from configuration.
func NewService(cfg *config.Config) (*Service, error) {
	store := storage.NewFileStore(cfg.LibraryDir)
	meta := storage.NewMetadataStore(kv.NewFileNamespace(cfg.MetadataFile))
	col := tree.NewCollator(cfg.Locale)

	svc := &Service{
		cfg:           cfg,
		store:         store,
		meta:          meta,
		legacy:        storage.NewMetadataRepository(meta),
		promptTree:    tree.NewPromptTree(store, col),
		favoritesTree: tree.NewFavoritesTree(meta),
		docTree:       tree.NewDocTree(cfg.WorkspaceRoots, col),
		gen:           generator.NewClient(cfg.GeneratorURL),
	}

	if err := store.EnsureReady(); err != nil {
		return nil, fmt.Errorf("failed to initialize prompt library: %w", err)
	}
	return svc, nil
}

// StartWatcher begins observing the prompt directory and workspace doc/
// trees, invalidating projections on every change event. A watcher that
// cannot start is a warning, not a failure: refresh falls back to manual.
func (s *Service) StartWatcher() {
	fw, err := watcher.New(s.RefreshAll)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: filesystem watching disabled: %v\n", err)
		return
	}

	for _, root := range s.watchRoots() {
		if err := fw.Watch(root); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	s.fw = fw
	go fw.Run()
}

// watchRoots lists the directories under observation: the managed prompt
// directory and each workspace's doc/ tree. Project sources outside doc/ are
// not part of the watch surface and must not fire invalidations.
func (s *Service) watchRoots() []string {
	roots := []string{s.store.Root()}
	for _, ws := range s.cfg.WorkspaceRoots {
		roots = append(roots, filepath.Join(ws, "doc"))
	}
	return roots
}

// Close releases the watcher, if any.
func (s *Service) Close() {
	if s.fw != nil {
		s.fw.Close()
	}
}

// RefreshAll invalidates every projection; the next query of each re-lists.
func (s *Service) RefreshAll() {
	s.promptTree.Invalidate()
	s.favoritesTree.Invalidate()
	s.docTree.Invalidate()
}

// PromptTree returns the prompt projection.
func (s *Service) PromptTree() *tree.PromptTree { return s.promptTree }

// FavoritesTree returns the favorites projection.
func (s *Service) FavoritesTree() *tree.FavoritesTree { return s.favoritesTree }

// DocTree returns the document projection.
func (s *Service) DocTree() *tree.DocTree { return s.docTree }

// LibraryDir returns the managed prompt directory.
func (s *Service) LibraryDir() string { return s.store.Root() }

// ListPrompts returns a fresh snapshot of all prompts.
func (s *Service) ListPrompts() []*models.Prompt {
	return s.store.ListPrompts()
}

// ListFolders returns a fresh snapshot of all folders.
func (s *Service) ListFolders() []models.FolderRef {
	return s.store.ListFolders()
}

// FindPrompt locates a prompt by its displayed title.
func (s *Service) FindPrompt(title string) (*models.Prompt, error) {
	sanitized := validation.SanitizeTitle(title)
	for _, p := range s.store.ListPrompts() {
		if p.Title == title || p.Title == sanitized {
			return p, nil
		}
	}
	return nil, errors.NotFoundError(fmt.Sprintf("prompt %q", title))
}

// SearchPrompts fuzzy-matches the query against prompt titles and content.
// An empty query returns everything.
func (s *Service) SearchPrompts(query string) []*models.Prompt {
	prompts := s.store.ListPrompts()
	if query == "" {
		return prompts
	}

	searchStrings := make([]string, 0, len(prompts))
	for _, p := range prompts {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s", p.Title, p.Content))
	}

	matches := fuzzy.Find(query, searchStrings)
	results := make([]*models.Prompt, 0, len(matches))
	for _, match := range matches {
		results = append(results, prompts[match.Index])
	}
	return results
}

// CreatePrompt validates and persists a new prompt. When folderPath names a
// first-level folder the file lands inside it; otherwise it lands loose
// under the root. Validation failures leave the library untouched.
func (s *Service) CreatePrompt(title, content, folderPath string) (*models.Prompt, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}

	prompt := models.NewPrompt(title, content)
	if folderPath != "" {
		if _, err := os.Stat(folderPath); err != nil {
			return nil, errors.NotFoundError(fmt.Sprintf("folder %q", folderPath))
		}
		prompt.FilePath = filepath.Join(folderPath, validation.SanitizeTitle(title)+".md")
	}

	if _, err := s.store.SavePrompt(prompt); err != nil {
		return nil, errors.StorageError("save prompt", err)
	}
	s.promptTree.Invalidate()
	return prompt, nil
}

// SavePromptContent overwrites an existing prompt file's content.
func (s *Service) SavePromptContent(prompt *models.Prompt) error {
	if prompt.FilePath == "" {
		return errors.ValidationError("prompt has no backing file")
	}
	if _, err := s.store.SavePrompt(prompt); err != nil {
		return errors.StorageError("save prompt", err)
	}
	s.promptTree.Invalidate()
	return nil
}

// DeletePrompt removes a prompt file, reporting whether anything was
// removed. Deleting an already-gone file is a benign no-op.
func (s *Service) DeletePrompt(path string) (bool, error) {
	removed, err := s.store.DeletePrompt(path)
	if err != nil {
		return false, errors.StorageError("delete prompt", err)
	}
	if removed {
		s.promptTree.Invalidate()
	}
	return removed, nil
}

// CreateFolder validates the name and creates a first-level folder.
func (s *Service) CreateFolder(name string) error {
	if err := validation.ValidateFolderName(name); err != nil {
		return err
	}
	created, err := s.store.CreateFolder(name)
	if err != nil {
		return errors.StorageError("create folder", err)
	}
	if !created {
		return errors.AlreadyExistsError(fmt.Sprintf("folder %q", name))
	}
	s.promptTree.Invalidate()
	return nil
}

// DeleteFolder removes a folder directory and all its contents.
func (s *Service) DeleteFolder(path string) error {
	if err := s.store.DeleteFolder(path); err != nil {
		return errors.StorageError("delete folder", err)
	}
	s.promptTree.Invalidate()
	return nil
}

// RenameFolder renames a legacy folder record. Prompts referencing it keep
// their references; only the display name changes.
func (s *Service) RenameFolder(id, newName string) error {
	if err := validation.ValidateFolderName(newName); err != nil {
		return err
	}
	if err := s.meta.RenameFolder(id, newName); err != nil {
		return errors.StorageError("rename folder", err)
	}
	s.promptTree.Invalidate()
	return nil
}

// Favorites returns all stored favorites, including entries whose paths are
// currently missing; rendering filters those.
func (s *Service) Favorites() ([]*models.FavoriteItem, error) {
	return s.meta.Favorites()
}

// AddFileFavorite pins a file path. The file must exist at add time.
func (s *Service) AddFileFavorite(path, label string) (*models.FavoriteItem, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NotFoundError(fmt.Sprintf("file %q", path))
	}
	item := models.NewFileFavorite(path, label)
	if err := s.meta.AddFavorite(item); err != nil {
		return nil, errors.StorageError("add favorite", err)
	}
	s.favoritesTree.Invalidate()
	return item, nil
}

// AddCodeFavorite pins a code excerpt. lineNumber is 0-based and the snippet
// must be non-blank.
func (s *Service) AddCodeFavorite(path, label string, lineNumber int, snippet string) (*models.FavoriteItem, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NotFoundError(fmt.Sprintf("file %q", path))
	}
	if strings.TrimSpace(snippet) == "" {
		return nil, errors.ValidationError("selected code snippet is empty")
	}
	item := models.NewCodeFavorite(path, label, lineNumber, snippet)
	if err := s.meta.AddFavorite(item); err != nil {
		return nil, errors.StorageError("add favorite", err)
	}
	s.favoritesTree.Invalidate()
	return item, nil
}

// RemoveFavorite removes a favorite by id.
func (s *Service) RemoveFavorite(id string) error {
	if err := s.meta.RemoveFavorite(id); err != nil {
		return errors.StorageError("remove favorite", err)
	}
	s.favoritesTree.Invalidate()
	return nil
}

// RecordPromptUse bumps the usage count of a legacy prompt record. Unknown
// ids are ignored.
func (s *Service) RecordPromptUse(id string) {
	if err := s.meta.IncrementUsageCount(id); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record prompt use: %v\n", err)
	}
}

// LegacyRepository exposes the key-value-backed prompt repository.
func (s *Service) LegacyRepository() storage.Repository {
	return s.legacy
}

// MetadataStore exposes the metadata collections.
func (s *Service) MetadataStore() *storage.MetadataStore {
	return s.meta
}

// GeneratePrompt calls the external generation service. On success the
// returned prompt's Path is already persisted by the service; the store
// performs no further write, only a projection refresh. Failures carry the
// service's error text and are never retried.
func (s *Service) GeneratePrompt(ctx context.Context, req generator.Request) (*generator.GeneratedPrompt, error) {
	prompt, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	s.promptTree.Invalidate()
	return prompt, nil
}
