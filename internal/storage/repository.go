package storage

import (
	"fmt"
	"os"

	"github.com/promptdock/promptdock/internal/models"
)

// Repository is the canonical prompt-storage contract. Two interchangeable
// backends satisfy it: the file-tree store and a key-value adapter over the
// legacy metadata collections. Presentation layers consume only this
// interface, never a concrete backend.
//
// Listing operations degrade to empty results instead of failing so a tree
// view stays usable through transient I/O trouble; mutating operations
// surface their errors.
type Repository interface {
	// EnsureReady prepares the backend for use. Idempotent.
	EnsureReady() error
	// ListPrompts returns a fresh snapshot of all prompts.
	ListPrompts() []*models.Prompt
	// ListFolders returns a fresh snapshot of all folders.
	ListFolders() []models.FolderRef
	// SavePrompt persists a prompt and returns its resolved reference
	// (file path or record id).
	SavePrompt(prompt *models.Prompt) (string, error)
	// DeletePrompt removes the prompt with the given reference, reporting
	// whether anything was actually removed.
	DeletePrompt(ref string) (bool, error)
}

var (
	_ Repository = (*FileStore)(nil)
	_ Repository = (*MetadataRepository)(nil)
)

// MetadataRepository adapts the legacy key-value collections to the
// Repository contract. Prompt references are record ids and folder refs carry
// the folder record's id in place of a path.
type MetadataRepository struct {
	meta *MetadataStore
}

// NewMetadataRepository wraps a metadata store as a Repository.
func NewMetadataRepository(meta *MetadataStore) *MetadataRepository {
	return &MetadataRepository{meta: meta}
}

// EnsureReady is a no-op; the namespace file is created lazily on first
// write.
func (r *MetadataRepository) EnsureReady() error {
	return nil
}

// ListPrompts returns all legacy prompt records, degrading to an empty slice
// on read failure.
func (r *MetadataRepository) ListPrompts() []*models.Prompt {
	prompts, err := r.meta.Prompts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read prompt records: %v\n", err)
		return []*models.Prompt{}
	}
	return prompts
}

// ListFolders returns all legacy folder records as refs, degrading to an
// empty slice on read failure.
func (r *MetadataRepository) ListFolders() []models.FolderRef {
	folders, err := r.meta.Folders()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read folder records: %v\n", err)
		return []models.FolderRef{}
	}
	refs := make([]models.FolderRef, 0, len(folders))
	for _, f := range folders {
		refs = append(refs, models.FolderRef{Name: f.Name, Path: f.ID})
	}
	return refs
}

// SavePrompt updates the record with the prompt's id when it exists,
// otherwise appends it. Returns the record id.
func (r *MetadataRepository) SavePrompt(prompt *models.Prompt) (string, error) {
	existing, err := r.meta.PromptByID(prompt.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if err := r.meta.UpdatePrompt(prompt); err != nil {
			return "", err
		}
		return prompt.ID, nil
	}
	if err := r.meta.AddPrompt(prompt); err != nil {
		return "", err
	}
	return prompt.ID, nil
}

// DeletePrompt removes the record with the given id, reporting whether a
// record was actually removed.
func (r *MetadataRepository) DeletePrompt(ref string) (bool, error) {
	existing, err := r.meta.PromptByID(ref)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if err := r.meta.DeletePrompt(ref); err != nil {
		return false, err
	}
	return true, nil
}
