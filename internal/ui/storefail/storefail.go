// Package storefail is the full-screen alert shown when the sound store
// cannot be opened.
package storefail

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/soundpad/internal/soundboard/domain"
	"github.com/zjrosen/soundpad/internal/ui/styles"
)

// maxTextWidth keeps the message readable on very wide terminals.
const maxTextWidth = 72

// Model holds the alert state.
type Model struct {
	err    error
	path   string
	width  int
	height int
}

// New builds the alert for err. The store path is taken from an
// *domain.InitializationError when err carries one.
func New(err error) Model {
	m := Model{err: err}
	var initErr *domain.InitializationError
	if errors.As(err, &initErr) {
		m.path = initErr.Path
		m.err = initErr.Err
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	wrap := min(m.width-4, maxTextWidth)

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.StatusErrorColor)
	text := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).MarginTop(1)

	var b strings.Builder
	b.WriteString(title.Render("The sound store could not be opened"))
	b.WriteString("\n\n")
	if m.path != "" {
		b.WriteString(text.Render(wordwrap.String("Store: "+m.path, wrap)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render(wordwrap.String(m.err.Error(), wrap)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(text.Render("Your sounds are not lost. Things to try:"))
	b.WriteString("\n\n")
	b.WriteString(text.Render("  1. Check that the directory is writable"))
	b.WriteString("\n")
	b.WriteString(text.Render("  2. Close other programs holding the database"))
	b.WriteString("\n")
	b.WriteString(text.Render("  3. Restore {store}.bak or pass --db to use another file"))
	b.WriteString("\n")
	b.WriteString(hint.Render("Press q to quit"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}
