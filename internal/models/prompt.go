package models

import (
	"time"

	"github.com/google/uuid"
)

// Prompt represents a stored reusable text snippet.
//
// Two persistence modes share this struct. In file-backed mode the prompt is
// a read projection of a file under the managed library root: FilePath is set,
// Title mirrors the file's base name and UpdatedAt mirrors its modification
// time. The ID is regenerated on every listing pass and carries no cross-call
// identity; the path is the stable identity. In legacy metadata mode the
// prompt is a persisted record and may reference a folder by FolderID.
type Prompt struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
	UsageCount int    `json:"usageCount"`
	FolderID   string `json:"folderId,omitempty"`
	FilePath   string `json:"filePath,omitempty"`
}

// NewPrompt creates a new prompt record with a fresh id and timestamps.
func NewPrompt(title, content string) *Prompt {
	now := time.Now().UnixMilli()
	return &Prompt{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewFilePrompt synthesizes a file-backed prompt projection for one listing
// pass. updatedAt is the backing file's modification time in milliseconds.
func NewFilePrompt(title, content, filePath string, updatedAt int64) *Prompt {
	p := NewPrompt(title, content)
	p.FilePath = filePath
	if updatedAt > 0 {
		p.UpdatedAt = updatedAt
	}
	return p
}

// Folder is a legacy metadata-mode grouping record. File-backed folders have
// no persisted record; see FolderRef.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// NewFolder creates a new legacy folder record.
func NewFolder(name string) *Folder {
	return &Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// FolderRef identifies a folder as seen by a listing pass. In file-backed
// mode Path is the directory's absolute path; in legacy mode it carries the
// folder record's id.
type FolderRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
