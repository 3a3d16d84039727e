package models

import (
	"fmt"

	"github.com/google/uuid"
)

// FavoriteType distinguishes pinned files from pinned code excerpts.
type FavoriteType string

const (
	FavoriteFile FavoriteType = "file"
	FavoriteCode FavoriteType = "code"
)

// FavoriteItem is a pinned file path or code excerpt.
//
// At most one file-type favorite exists per distinct path; adding a duplicate
// replaces the existing entry in place. Code-type favorites carry the 0-based
// line number and the excerpt text and have no uniqueness constraint.
type FavoriteItem struct {
	ID          string       `json:"id"`
	Type        FavoriteType `json:"type"`
	Path        string       `json:"path"`
	Label       string       `json:"label"`
	LineNumber  int          `json:"lineNumber,omitempty"`
	CodeSnippet string       `json:"codeSnippet,omitempty"`
	Description string       `json:"description,omitempty"`
}

// NewFileFavorite creates a favorite pinning a whole file.
func NewFileFavorite(path, label string) *FavoriteItem {
	return &FavoriteItem{
		ID:    "file_" + uuid.NewString(),
		Type:  FavoriteFile,
		Path:  path,
		Label: label,
	}
}

// NewCodeFavorite creates a favorite pinning a code excerpt. lineNumber is
// 0-based.
func NewCodeFavorite(path, label string, lineNumber int, snippet string) *FavoriteItem {
	return &FavoriteItem{
		ID:          "code_" + uuid.NewString(),
		Type:        FavoriteCode,
		Path:        path,
		Label:       label,
		LineNumber:  lineNumber,
		CodeSnippet: snippet,
		Description: fmt.Sprintf("Line %d", lineNumber+1),
	}
}
