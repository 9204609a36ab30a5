// Package help renders the keymap overlay.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/ui/styles"
)

// Section is one titled group of the overlay.
type Section struct {
	Title    string
	Bindings []key.Binding
	Notes    []string
}

// CloseMsg asks the parent to dismiss the overlay.
type CloseMsg struct{}

var closeKeys = key.NewBinding(key.WithKeys("esc", "f1", "q", "enter"))

// Markdown builds the overlay source. Disabled bindings are skipped.
func Markdown(sections []Section) string {
	var b strings.Builder
	b.WriteString("# Soundpad\n")
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Title)
		rows := 0
		for _, kb := range s.Bindings {
			if !kb.Enabled() {
				continue
			}
			h := kb.Help()
			if rows == 0 {
				b.WriteString("| Key | Action |\n| --- | --- |\n")
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
			rows++
		}
		if rows > 0 && len(s.Notes) > 0 {
			b.WriteString("\n")
		}
		for _, n := range s.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return b.String()
}

// Render turns markdown into styled terminal text wrapped at width.
func Render(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering help: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// Model is the overlay.
type Model struct {
	source   string
	rendered string
	width    int
	height   int
}

// New builds the overlay for the given sections.
func New(sections []Section) Model {
	return Model{source: Markdown(sections)}
}

// SetSize re-renders for a new terminal size.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	wrap := min(max(width-8, 20), 80)
	out, err := Render(m.source, wrap)
	if err != nil {
		log.ErrorErr(log.CatUI, "help render failed", err)
		out = m.source
	}
	m.rendered = out
	return m
}

// Update closes the overlay on esc, f1, q or enter.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		if key.Matches(msg, closeKeys) {
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

// View renders the overlay centred in the terminal.
func (m Model) View() string {
	body := m.rendered
	if body == "" {
		body = m.source
	}
	lines := strings.Split(body, "\n")
	if m.height > 4 && len(lines) > m.height-4 {
		lines = lines[:m.height-4]
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Render(strings.Join(lines, "\n") + "\n" + styles.MutedStyle.Render("  esc close"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
