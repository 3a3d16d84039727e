package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/promptdock/promptdock/internal/kv"
	"github.com/promptdock/promptdock/internal/models"
)

// Logical keys in the metadata namespace. Each holds a full list-valued blob.
const (
	promptsKey   = "promptdock.prompts"
	foldersKey   = "promptdock.folders"
	favoritesKey = "promptdock.favorites"
)

// MetadataStore provides CRUD over three independently-keyed collections in
// one key-value namespace: legacy prompt records, legacy folder records, and
// favorites. Every mutation reads the collection in full, changes it in
// memory and writes it back in full; there are no transactions spanning
// collections. The store assumes single-writer access within one process —
// two in-process callers racing on the same collection can lose an update.
type MetadataStore struct {
	ns kv.Namespace
}

// NewMetadataStore creates a metadata store over the given namespace.
func NewMetadataStore(ns kv.Namespace) *MetadataStore {
	return &MetadataStore{ns: ns}
}

// readList decodes the collection under key. A missing key is an empty list.
func readList[T any](ns kv.Namespace, key string) ([]T, error) {
	blob, ok, err := ns.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// writeList encodes and stores the full collection under key.
func writeList[T any](ns kv.Namespace, key string, items []T) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := ns.Set(key, blob); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Prompts returns all legacy prompt records.
func (m *MetadataStore) Prompts() ([]*models.Prompt, error) {
	return readList[*models.Prompt](m.ns, promptsKey)
}

// SavePrompts replaces the whole prompt collection.
func (m *MetadataStore) SavePrompts(prompts []*models.Prompt) error {
	return writeList(m.ns, promptsKey, prompts)
}

// AddPrompt appends a prompt record.
func (m *MetadataStore) AddPrompt(prompt *models.Prompt) error {
	prompts, err := m.Prompts()
	if err != nil {
		return err
	}
	return m.SavePrompts(append(prompts, prompt))
}

// UpdatePrompt replaces the record with the same id. The stored usage count
// is preserved and UpdatedAt is stamped with the current time. Unknown ids
// are a no-op.
func (m *MetadataStore) UpdatePrompt(updated *models.Prompt) error {
	prompts, err := m.Prompts()
	if err != nil {
		return err
	}
	for i, p := range prompts {
		if p.ID == updated.ID {
			updated.UsageCount = p.UsageCount
			updated.UpdatedAt = time.Now().UnixMilli()
			prompts[i] = updated
			return m.SavePrompts(prompts)
		}
	}
	return nil
}

// DeletePrompt removes the record with the given id. The collection is only
// written back when something was actually removed.
func (m *MetadataStore) DeletePrompt(id string) error {
	prompts, err := m.Prompts()
	if err != nil {
		return err
	}
	kept := prompts[:0]
	for _, p := range prompts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(prompts) {
		return nil
	}
	return m.SavePrompts(kept)
}

// PromptByID returns the record with the given id, or nil when absent.
func (m *MetadataStore) PromptByID(id string) (*models.Prompt, error) {
	prompts, err := m.Prompts()
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

// IncrementUsageCount bumps the usage count of the record with the given id.
// Unknown ids are a no-op, not an error.
func (m *MetadataStore) IncrementUsageCount(id string) error {
	prompts, err := m.Prompts()
	if err != nil {
		return err
	}
	for _, p := range prompts {
		if p.ID == id {
			p.UsageCount++
			return m.SavePrompts(prompts)
		}
	}
	return nil
}

// Folders returns all legacy folder records.
func (m *MetadataStore) Folders() ([]*models.Folder, error) {
	return readList[*models.Folder](m.ns, foldersKey)
}

// SaveFolders replaces the whole folder collection.
func (m *MetadataStore) SaveFolders(folders []*models.Folder) error {
	return writeList(m.ns, foldersKey, folders)
}

// AddFolder appends a folder record.
func (m *MetadataStore) AddFolder(folder *models.Folder) error {
	folders, err := m.Folders()
	if err != nil {
		return err
	}
	return m.SaveFolders(append(folders, folder))
}

// RenameFolder updates the name of the folder with the given id.
func (m *MetadataStore) RenameFolder(id, newName string) error {
	folders, err := m.Folders()
	if err != nil {
		return err
	}
	for _, f := range folders {
		if f.ID == id {
			f.Name = newName
			return m.SaveFolders(folders)
		}
	}
	return nil
}

// DeleteFolder removes the folder record and clears the FolderID of every
// prompt that referenced it, so no dangling references survive. This is the
// one cross-collection invariant the store enforces.
func (m *MetadataStore) DeleteFolder(id string) error {
	folders, err := m.Folders()
	if err != nil {
		return err
	}
	kept := folders[:0]
	for _, f := range folders {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(folders) {
		return nil
	}
	if err := m.SaveFolders(kept); err != nil {
		return err
	}

	prompts, err := m.Prompts()
	if err != nil {
		return err
	}
	changed := false
	for _, p := range prompts {
		if p.FolderID == id {
			p.FolderID = ""
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return m.SavePrompts(prompts)
}

// Favorites returns all favorite items.
func (m *MetadataStore) Favorites() ([]*models.FavoriteItem, error) {
	return readList[*models.FavoriteItem](m.ns, favoritesKey)
}

// SaveFavorites replaces the whole favorites collection.
func (m *MetadataStore) SaveFavorites(favorites []*models.FavoriteItem) error {
	return writeList(m.ns, favoritesKey, favorites)
}

// AddFavorite appends a favorite. A file-type favorite whose path matches an
// existing file-type entry replaces that entry in place instead of
// duplicating it; code-type favorites have no uniqueness constraint.
func (m *MetadataStore) AddFavorite(item *models.FavoriteItem) error {
	favorites, err := m.Favorites()
	if err != nil {
		return err
	}

	if item.Type == models.FavoriteFile {
		for i, existing := range favorites {
			if existing.Type == models.FavoriteFile && existing.Path == item.Path {
				favorites[i] = item
				return m.SaveFavorites(favorites)
			}
		}
	}
	return m.SaveFavorites(append(favorites, item))
}

// RemoveFavorite removes the favorite with the given id. The collection is
// only written back when something was actually removed.
func (m *MetadataStore) RemoveFavorite(id string) error {
	favorites, err := m.Favorites()
	if err != nil {
		return err
	}
	kept := favorites[:0]
	for _, f := range favorites {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(favorites) {
		return nil
	}
	return m.SaveFavorites(kept)
}
