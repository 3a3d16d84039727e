package storage

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/promptdock/promptdock/internal/models"
	"github.com/promptdock/promptdock/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed builtin_prompts.yaml
var builtinPromptsYAML []byte

type builtinPrompts struct {
	Prompts []struct {
		Title   string `yaml:"title"`
		Content string `yaml:"content"`
	} `yaml:"prompts"`
}

// FileStore owns a single managed prompt directory. Prompts are loose .md
// files immediately under the root; folders are first-level subdirectories.
// The filesystem is the source of truth: every listing re-reads it and the
// returned records are snapshots valid only for that pass.
type FileStore struct {
	root string

	// mu guards seeded. Seeding is keyed off "has this store instance
	// completed its first-run check", not "is the directory currently
	// empty": emptying the directory later does not trigger a reseed. A
	// failed check is retried on the next call instead of consuming the
	// one seeding attempt.
	mu     sync.Mutex
	seeded bool
}

// NewFileStore creates a store owning root. The directory is not touched
// until EnsureReady runs.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the managed root directory.
func (s *FileStore) Root() string {
	return s.root
}

// EnsureReady idempotently creates the root directory and, on the first
// successful check per store lifetime, seeds the built-in prompts when the
// directory has no entries at all. A failed check leaves the seeding attempt
// available for the next call.
func (s *FileStore) EnsureReady() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create prompt directory %s: %w", s.root, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return nil
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("failed to read prompt directory: %w", err)
	}
	if len(entries) == 0 {
		if err := s.seedDefaults(); err != nil {
			return err
		}
	}
	s.seeded = true
	return nil
}

// seedDefaults writes the built-in prompts so the first-run library is never
// empty.
func (s *FileStore) seedDefaults() error {
	var builtin builtinPrompts
	if err := yaml.Unmarshal(builtinPromptsYAML, &builtin); err != nil {
		return fmt.Errorf("failed to parse built-in prompts: %w", err)
	}

	for _, def := range builtin.Prompts {
		prompt := models.NewPrompt(def.Title, def.Content)
		if _, err := s.SavePrompt(prompt); err != nil {
			return fmt.Errorf("failed to seed prompt %q: %w", def.Title, err)
		}
	}
	return nil
}

// ListPrompts enumerates the immediate .md files under the root and
// synthesizes a prompt projection for each. The sequence is recomputed fresh
// on every call. Read errors degrade to an empty or partial result so a tree
// view never breaks on transient I/O trouble.
func (s *FileStore) ListPrompts() []*models.Prompt {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read prompt directory: %v\n", err)
		}
		return []*models.Prompt{}
	}

	prompts := make([]*models.Prompt, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		prompt, err := s.ReadPrompt(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load prompt %s: %v\n", path, err)
			continue
		}
		prompts = append(prompts, prompt)
	}
	return prompts
}

// ReadPrompt synthesizes a prompt projection from one file. The title is the
// base name with the extension stripped; content is exactly the file's bytes;
// UpdatedAt mirrors the file's modification time.
func (s *FileStore) ReadPrompt(path string) (*models.Prompt, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var updatedAt int64
	if info, err := os.Stat(path); err == nil {
		updatedAt = info.ModTime().UnixMilli()
	}

	title := strings.TrimSuffix(filepath.Base(path), ".md")
	return models.NewFilePrompt(title, string(content), path, updatedAt), nil
}

// ListFolders enumerates the immediate subdirectories of the root. It does
// not recurse; the prompt library is a one-level tree. Errors degrade to an
// empty result.
func (s *FileStore) ListFolders() []models.FolderRef {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read prompt directory: %v\n", err)
		}
		return []models.FolderRef{}
	}

	folders := make([]models.FolderRef, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folders = append(folders, models.FolderRef{
			Name: entry.Name(),
			Path: filepath.Join(s.root, entry.Name()),
		})
	}
	return folders
}

// SavePrompt writes the prompt's content to disk and returns the resolved
// path. When FilePath is set that exact file is overwritten; otherwise the
// path is derived from the sanitized title under the root. A derived path
// that already exists is silently overwritten.
func (s *FileStore) SavePrompt(prompt *models.Prompt) (string, error) {
	path := prompt.FilePath
	if path == "" {
		path = filepath.Join(s.root, validation.SanitizeTitle(prompt.Title)+".md")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create prompt directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(prompt.Content), 0644); err != nil {
		return "", fmt.Errorf("failed to write prompt file: %w", err)
	}

	prompt.FilePath = path
	return path, nil
}

// DeletePrompt removes the file if present. It reports whether a file was
// actually removed; deleting an already-absent file is a benign no-op.
func (s *FileStore) DeletePrompt(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to delete prompt file: %w", err)
	}
	return true, nil
}

// CreateFolder creates a first-level folder under the root. It reports false
// when a directory of that name already exists. The name is used verbatim;
// callers validate it beforehand.
func (s *FileStore) CreateFolder(name string) (bool, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return false, fmt.Errorf("failed to create prompt directory: %w", err)
	}

	path := filepath.Join(s.root, name)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return false, fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	return true, nil
}

// DeleteFolder removes a folder directory and its contents unconditionally.
// The path must lie under the managed root.
func (s *FileStore) DeleteFolder(path string) error {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("folder %s is outside the prompt directory", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete folder %s: %w", path, err)
	}
	return nil
}
