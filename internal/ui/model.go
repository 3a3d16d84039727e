// Package ui implements the interactive terminal browser over the prompt,
// favorites and document projections.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/promptdock/promptdock/internal/renderer"
	"github.com/promptdock/promptdock/internal/service"
	"github.com/promptdock/promptdock/internal/tree"
)

// ViewMode is the current screen.
type ViewMode int

const (
	ViewBrowse ViewMode = iota
	ViewDetail
)

// Tab selects which projection the browse list shows.
type Tab int

const (
	TabPrompts Tab = iota
	TabFavorites
	TabDocs
)

var tabNames = []string{"Prompts", "Favorites", "Docs"}

// item adapts a tree node to the bubbles list.
type item struct {
	node tree.Node
}

func (i item) Title() string {
	if i.node.IsBranch() {
		return folderLabelStyle.Render(i.node.Label + "/")
	}
	return i.node.Label
}

func (i item) Description() string {
	switch i.node.Kind {
	case tree.KindFavorite:
		if i.node.Favorite != nil && i.node.Favorite.Description != "" {
			return i.node.Favorite.Description
		}
		return i.node.Path
	default:
		return i.node.Path
	}
}

func (i item) FilterValue() string { return i.node.Label }

// KeyMap defines the browser key bindings.
type KeyMap struct {
	Enter   key.Binding
	Back    key.Binding
	NextTab key.Binding
	Refresh key.Binding
	Delete  key.Binding
	Use     key.Binding
	Quit    key.Binding
	Help    key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Use:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "mark used")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Back, k.NextTab, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Back, k.NextTab},
		{k.Refresh, k.Delete, k.Use},
		{k.Help, k.Quit},
	}
}

// Model is the bubbletea application state.
type Model struct {
	svc *service.Service

	viewMode ViewMode
	tab      Tab

	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	md *renderer.Markdown

	// docStack holds the node whose children each docs level shows; empty
	// means the workspace roots level.
	docStack []tree.Node

	selected      *tree.Node
	deleteConfirm bool

	width  int
	height int

	statusMsg string
	err       error
}

// NewModel builds the browser over a wired service.
func NewModel(svc *service.Service) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)

	m := Model{
		svc:  svc,
		list: l,
		help: help.New(),
		keys: defaultKeyMap(),
	}
	m.reload()
	return m
}

// Run starts the interactive browser and blocks until it exits.
func Run(svc *service.Service) error {
	p := tea.NewProgram(NewModel(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive browser: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// currentNodes resolves the node slice for the active tab and docs level.
func (m *Model) currentNodes() []tree.Node {
	switch m.tab {
	case TabFavorites:
		return m.svc.FavoritesTree().Nodes()
	case TabDocs:
		if len(m.docStack) == 0 {
			return m.svc.DocTree().Nodes()
		}
		return m.svc.DocTree().Children(m.docStack[len(m.docStack)-1])
	default:
		return m.svc.PromptTree().Nodes()
	}
}

func (m *Model) reload() {
	nodes := m.currentNodes()
	items := make([]list.Item, len(nodes))
	for i, n := range nodes {
		items[i] = item{node: n}
	}
	m.list.SetItems(items)
}

func (m *Model) selectedNode() *tree.Node {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return nil
	}
	node := it.node
	return &node
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		m.viewport = viewport.New(msg.Width-4, msg.Height-6)
		if md, err := renderer.NewMarkdown(msg.Width - 6); err == nil {
			m.md = md
		}
		return m, nil

	case tea.KeyMsg:
		// Let the list's filter input swallow keys while filtering.
		if m.viewMode == ViewBrowse && m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.svc.RefreshAll()
			m.reload()
			m.statusMsg = "Refreshed"
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			if m.viewMode == ViewBrowse {
				m.tab = (m.tab + 1) % 3
				m.docStack = nil
				m.deleteConfirm = false
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Back):
			return m.handleBack()

		case key.Matches(msg, m.keys.Enter):
			return m.handleEnter()

		case key.Matches(msg, m.keys.Delete):
			if m.viewMode == ViewBrowse {
				return m.handleDelete()
			}

		case key.Matches(msg, m.keys.Use):
			if node := m.activeNode(); node != nil && node.Prompt != nil {
				m.svc.RecordPromptUse(node.Prompt.ID)
				m.statusMsg = fmt.Sprintf("Marked %q used", node.Prompt.Title)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// activeNode is the detail node when open, otherwise the list selection.
func (m *Model) activeNode() *tree.Node {
	if m.viewMode == ViewDetail {
		return m.selected
	}
	return m.selectedNode()
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.viewMode == ViewDetail {
		return m, nil
	}
	node := m.selectedNode()
	if node == nil {
		return m, nil
	}

	if node.IsBranch() {
		if m.tab == TabDocs {
			m.docStack = append(m.docStack, *node)
			m.reload()
			m.list.ResetSelected()
		}
		// Prompt folders are flat; nothing to descend into.
		return m, nil
	}

	content, err := m.nodeContent(node)
	if err != nil {
		m.err = err
		return m, nil
	}
	if m.md != nil {
		content = m.md.Render(content)
	}

	m.selected = node
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	m.viewMode = ViewDetail
	m.err = nil
	return m, nil
}

// nodeContent reads what the detail view should show for a leaf node.
func (m *Model) nodeContent(node *tree.Node) (string, error) {
	switch node.Kind {
	case tree.KindPrompt:
		if node.Prompt != nil {
			return node.Prompt.Content, nil
		}
	case tree.KindFavorite:
		if node.Favorite != nil && node.Favorite.CodeSnippet != "" {
			return fmt.Sprintf("```\n%s\n```", node.Favorite.CodeSnippet), nil
		}
	}

	data, err := os.ReadFile(node.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", node.Path, err)
	}
	return string(data), nil
}

func (m Model) handleBack() (tea.Model, tea.Cmd) {
	if m.viewMode == ViewDetail {
		m.viewMode = ViewBrowse
		m.selected = nil
		return m, nil
	}
	if m.tab == TabDocs && len(m.docStack) > 0 {
		m.docStack = m.docStack[:len(m.docStack)-1]
		m.reload()
		m.list.ResetSelected()
	}
	m.deleteConfirm = false
	return m, nil
}

// handleDelete asks for a second press before removing anything.
func (m Model) handleDelete() (tea.Model, tea.Cmd) {
	node := m.selectedNode()
	if node == nil {
		return m, nil
	}

	if !m.deleteConfirm {
		m.deleteConfirm = true
		m.statusMsg = fmt.Sprintf("Press d again to delete %q", node.Label)
		return m, nil
	}
	m.deleteConfirm = false

	var err error
	switch node.Kind {
	case tree.KindPrompt:
		_, err = m.svc.DeletePrompt(node.Path)
	case tree.KindFolder:
		err = m.svc.DeleteFolder(node.Path)
	case tree.KindFavorite:
		if node.Favorite != nil {
			err = m.svc.RemoveFavorite(node.Favorite.ID)
		}
	default:
		m.statusMsg = "Documents are read-only here"
		return m, nil
	}

	if err != nil {
		m.err = err
		return m, nil
	}
	m.statusMsg = fmt.Sprintf("Deleted %q", node.Label)
	m.reload()
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("promptdock"))
	b.WriteString("  ")
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			b.WriteString(activeTabStyle.Render(name))
		} else {
			b.WriteString(tabStyle.Render(name))
		}
	}
	b.WriteString("\n")

	switch m.viewMode {
	case ViewDetail:
		b.WriteString(detailStyle.Render(m.viewport.View()))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else if m.statusMsg != "" {
		b.WriteString(statusStyle.Render(m.statusMsg))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}
