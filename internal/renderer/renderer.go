// Package renderer formats prompt and document markdown for terminal
// display.
package renderer

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown content with terminal styling.
type Markdown struct {
	tr *glamour.TermRenderer
}

// NewMarkdown creates a renderer wrapping at the given width.
func NewMarkdown(width int) (*Markdown, error) {
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Markdown{tr: tr}, nil
}

// Render returns the styled form of content. On rendering failure the raw
// content comes back unchanged so a preview never goes blank.
func (m *Markdown) Render(content string) string {
	out, err := m.tr.Render(content)
	if err != nil {
		return content
	}
	return out
}
